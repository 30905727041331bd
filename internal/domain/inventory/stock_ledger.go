package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit conditions recorded at receipt time
const (
	UnitConditionNew         = "NEW"
	UnitConditionOpenBox     = "OPEN_BOX"
	UnitConditionRefurbished = "REFURBISHED"
	UnitConditionDamaged     = "DAMAGED"
)

// UnitReceipt describes one serialized unit arriving into stock
type UnitReceipt struct {
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	LocationID uuid.UUID
	// SerialNumber is the unit's own identity, e.g. an IMEI or serial
	SerialNumber string
	Condition    string
	UnitCost     decimal.Decimal
	Notes        string
	// Reference ties the receipt back to its source document, and
	// SourceLineID to the exact document line that produced the unit
	ReferenceType string
	ReferenceID   uuid.UUID
	SourceLineID  uuid.UUID
	ReceivedBy    *uuid.UUID
}

// BatchReceipt describes a quantity of interchangeable units arriving into stock
type BatchReceipt struct {
	StoreID       uuid.UUID
	ProductID     uuid.UUID
	LocationID    uuid.UUID
	Quantity      int64
	UnitCost      decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	SourceLineID  uuid.UUID
	ReceivedBy    *uuid.UUID
}

// StockLedger is the gateway purchasing uses to put received goods into
// stock. Implementations must join the transaction carried in ctx: when the
// caller's transaction rolls back, every ledger write rolls back with it.
type StockLedger interface {
	// AddUnitTrackedItem records one serialized unit. Called once per unit.
	AddUnitTrackedItem(ctx context.Context, receipt UnitReceipt) error

	// AddBatch records a quantity of non-serialized stock in a single call
	AddBatch(ctx context.Context, receipt BatchReceipt) error
}

// Reference document types recorded with ledger writes
const (
	ReferenceTypePurchaseOrder = "PURCHASE_ORDER"
)

// Stock unit statuses
const (
	UnitStatusInStock = "IN_STOCK"
)

// StockUnit is one serialized physical unit held in stock
type StockUnit struct {
	ID           uuid.UUID
	StoreID      uuid.UUID
	ProductID    uuid.UUID
	LocationID   uuid.UUID
	SerialNumber string
	Condition    string
	UnitCost     decimal.Decimal
	Notes        string
	Status       string
	SourceLineID uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockLevel is the on-hand quantity of one product at one location
type StockLevel struct {
	ID         uuid.UUID
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockReceipt is the audit record written for every ledger addition
type StockReceipt struct {
	ID            uuid.UUID
	StoreID       uuid.UUID
	ProductID     uuid.UUID
	LocationID    uuid.UUID
	Quantity      int64
	UnitCost      decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	SourceLineID  uuid.UUID
	ReceivedBy    *uuid.UUID
	CreatedAt     time.Time
}
