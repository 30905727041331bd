package models

import (
	"time"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationModel is the persistence model for stock locations.
type LocationModel struct {
	StoreAggregateModel
	Name   string `gorm:"type:varchar(100);not null"`
	Code   string `gorm:"type:varchar(20);not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location entity.
func (m *LocationModel) ToDomain() *inventory.Location {
	location := &inventory.Location{
		Name:   m.Name,
		Code:   m.Code,
		Active: m.Active,
	}
	m.PopulateStoreAggregateRoot(&location.StoreAggregateRoot)
	return location
}

// FromDomain populates the persistence model from a domain Location entity.
func (m *LocationModel) FromDomain(l *inventory.Location) {
	m.FromDomainStoreAggregateRoot(l.StoreAggregateRoot)
	m.Name = l.Name
	m.Code = l.Code
	m.Active = l.Active
}

// StockUnitModel is the persistence model for serialized stock units.
type StockUnitModel struct {
	BaseModel
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID   uuid.UUID       `gorm:"type:uuid;not null"`
	SerialNumber string          `gorm:"type:varchar(100);not null;index"`
	Condition    string          `gorm:"type:varchar(20);not null;default:'NEW'"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes        string          `gorm:"type:text"`
	Status       string          `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	SourceLineID uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (StockUnitModel) TableName() string {
	return "stock_units"
}

// ToDomain converts the persistence model to a domain StockUnit entity.
func (m *StockUnitModel) ToDomain() *inventory.StockUnit {
	return &inventory.StockUnit{
		ID:           m.ID,
		StoreID:      m.StoreID,
		ProductID:    m.ProductID,
		LocationID:   m.LocationID,
		SerialNumber: m.SerialNumber,
		Condition:    m.Condition,
		UnitCost:     m.UnitCost,
		Notes:        m.Notes,
		Status:       m.Status,
		SourceLineID: m.SourceLineID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// StockLevelModel is the persistence model for per-location stock quantities.
type StockLevelModel struct {
	BaseModel
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	LocationID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// ToDomain converts the persistence model to a domain StockLevel entity.
func (m *StockLevelModel) ToDomain() *inventory.StockLevel {
	return &inventory.StockLevel{
		ID:         m.ID,
		StoreID:    m.StoreID,
		ProductID:  m.ProductID,
		LocationID: m.LocationID,
		Quantity:   m.Quantity,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// StockReceiptModel is the persistence model for stock receipt audit records.
type StockReceiptModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      int64           `gorm:"not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceType string          `gorm:"type:varchar(30);not null"`
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceLineID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceivedBy    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockReceiptModel) TableName() string {
	return "stock_receipts"
}

// ToDomain converts the persistence model to a domain StockReceipt entity.
func (m *StockReceiptModel) ToDomain() *inventory.StockReceipt {
	return &inventory.StockReceipt{
		ID:            m.ID,
		StoreID:       m.StoreID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		SourceLineID:  m.SourceLineID,
		ReceivedBy:    m.ReceivedBy,
		CreatedAt:     m.CreatedAt,
	}
}
