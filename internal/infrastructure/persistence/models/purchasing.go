package models

import (
	"time"

	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	StoreAggregateModel
	PONumber     string                   `gorm:"type:varchar(50);not null;index"`
	SupplierID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	SupplierName string                   `gorm:"type:varchar(200);not null"`
	Lines        []PurchaseOrderLineModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount  decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status       purchasing.Status        `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes        string                   `gorm:"type:text"`
	OrderDate    time.Time                `gorm:"not null;index"`
	ExpectedDate *time.Time
	ReceivedDate *time.Time
	CancelledAt  *time.Time
	ClosedAt     *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	order := &purchasing.PurchaseOrder{
		PONumber:     m.PONumber,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
		Notes:        m.Notes,
		OrderDate:    m.OrderDate,
		ExpectedDate: m.ExpectedDate,
		ReceivedDate: m.ReceivedDate,
		CancelledAt:  m.CancelledAt,
		ClosedAt:     m.ClosedAt,
		Lines:        make([]purchasing.PurchaseOrderLine, len(m.Lines)),
	}
	m.PopulateStoreAggregateRoot(&order.StoreAggregateRoot)
	for i := range m.Lines {
		order.Lines[i] = *m.Lines[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *purchasing.PurchaseOrder) {
	m.FromDomainStoreAggregateRoot(o.StoreAggregateRoot)
	m.PONumber = o.PONumber
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Notes = o.Notes
	m.OrderDate = o.OrderDate
	m.ExpectedDate = o.ExpectedDate
	m.ReceivedDate = o.ReceivedDate
	m.CancelledAt = o.CancelledAt
	m.ClosedAt = o.ClosedAt
	m.Lines = make([]PurchaseOrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i].FromDomain(&o.Lines[i])
	}
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain entity
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderLineModel is the persistence model for purchase order lines.
type PurchaseOrderLineModel struct {
	BaseModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity  int64           `gorm:"not null"`
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain PurchaseOrderLine entity.
func (m *PurchaseOrderLineModel) ToDomain() *purchasing.PurchaseOrderLine {
	return &purchasing.PurchaseOrderLine{
		ID:               m.ID,
		PurchaseOrderID:  m.PurchaseOrderID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		SKU:              m.SKU,
		OrderedQuantity:  m.OrderedQuantity,
		ReceivedQuantity: m.ReceivedQuantity,
		UnitCost:         m.UnitCost,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrderLine entity.
func (m *PurchaseOrderLineModel) FromDomain(l *purchasing.PurchaseOrderLine) {
	m.ID = l.ID
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
	m.PurchaseOrderID = l.PurchaseOrderID
	m.ProductID = l.ProductID
	m.ProductName = l.ProductName
	m.SKU = l.SKU
	m.OrderedQuantity = l.OrderedQuantity
	m.ReceivedQuantity = l.ReceivedQuantity
	m.UnitCost = l.UnitCost
}

// PurchaseOrderLineModelFromDomain creates a persistence model from a domain entity
func PurchaseOrderLineModelFromDomain(l *purchasing.PurchaseOrderLine) *PurchaseOrderLineModel {
	m := &PurchaseOrderLineModel{}
	m.FromDomain(l)
	return m
}

// StoreCounterModel is the persistence model for per-store document counters.
// One row per store, keyed by store ID.
type StoreCounterModel struct {
	StoreID         uuid.UUID `gorm:"type:uuid;primary_key"`
	LastPONumber    int64     `gorm:"not null;default:0"`
	PONumberPrefix  string    `gorm:"type:varchar(10);not null;default:'PO'"`
	PONumberPadding int       `gorm:"not null;default:5"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreCounterModel) TableName() string {
	return "store_counters"
}

// ToDomain converts the persistence model to a domain StoreCounter entity.
func (m *StoreCounterModel) ToDomain() *purchasing.StoreCounter {
	return &purchasing.StoreCounter{
		StoreID:         m.StoreID,
		LastPONumber:    m.LastPONumber,
		PONumberPrefix:  m.PONumberPrefix,
		PONumberPadding: m.PONumberPadding,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain StoreCounter entity.
func (m *StoreCounterModel) FromDomain(c *purchasing.StoreCounter) {
	m.StoreID = c.StoreID
	m.LastPONumber = c.LastPONumber
	m.PONumberPrefix = c.PONumberPrefix
	m.PONumberPadding = c.PONumberPadding
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
