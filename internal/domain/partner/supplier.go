package partner

import (
	"context"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier represents a vendor a store purchases from
type Supplier struct {
	shared.StoreAggregateRoot
	Name         string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Active       bool
}

// NewSupplier creates a new supplier
func NewSupplier(storeID uuid.UUID, name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	}
	return &Supplier{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Active:             true,
	}, nil
}

// SupplierReader provides read access to suppliers within a store. A
// supplier from another store is reported as not found.
type SupplierReader interface {
	FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*Supplier, error)
}
