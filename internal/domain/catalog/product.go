package catalog

import (
	"context"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in a store's catalog. Purchasing only
// reads products; full catalog management lives elsewhere.
type Product struct {
	shared.StoreAggregateRoot
	Name        string
	SKU         string
	Description string
	UnitCost    decimal.Decimal
	RetailPrice decimal.Decimal
	// UnitTracked products are received one physical unit at a time, each
	// with its own identity in the stock ledger.
	UnitTracked bool
	Active      bool
}

// NewProduct creates a new product
func NewProduct(storeID uuid.UUID, name, sku string, unitTracked bool) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product SKU cannot be empty")
	}

	return &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		SKU:                sku,
		UnitCost:           decimal.Zero,
		RetailPrice:        decimal.Zero,
		UnitTracked:        unitTracked,
		Active:             true,
	}, nil
}

// ProductReader provides read access to products within a store. A product
// from another store is reported as not found.
type ProductReader interface {
	FindByID(ctx context.Context, storeID, productID uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*Product, error)
}
