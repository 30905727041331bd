package models

import (
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	StoreAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50);not null;index"`
	Description string          `gorm:"type:text"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitTracked bool            `gorm:"not null;default:false"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	product := &catalog.Product{
		Name:        m.Name,
		SKU:         m.SKU,
		Description: m.Description,
		UnitCost:    m.UnitCost,
		RetailPrice: m.RetailPrice,
		UnitTracked: m.UnitTracked,
		Active:      m.Active,
	}
	m.PopulateStoreAggregateRoot(&product.StoreAggregateRoot)
	return product
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainStoreAggregateRoot(p.StoreAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Description = p.Description
	m.UnitCost = p.UnitCost
	m.RetailPrice = p.RetailPrice
	m.UnitTracked = p.UnitTracked
	m.Active = p.Active
}
