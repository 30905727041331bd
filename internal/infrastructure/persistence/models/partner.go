package models

import (
	"github.com/retailops/backend/internal/domain/partner"
)

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	StoreAggregateModel
	Name         string `gorm:"type:varchar(200);not null"`
	ContactName  string `gorm:"type:varchar(100)"`
	ContactEmail string `gorm:"type:varchar(200)"`
	ContactPhone string `gorm:"type:varchar(50)"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	supplier := &partner.Supplier{
		Name:         m.Name,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Active:       m.Active,
	}
	m.PopulateStoreAggregateRoot(&supplier.StoreAggregateRoot)
	return supplier
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainStoreAggregateRoot(s.StoreAggregateRoot)
	m.Name = s.Name
	m.ContactName = s.ContactName
	m.ContactEmail = s.ContactEmail
	m.ContactPhone = s.ContactPhone
	m.Active = s.Active
}
