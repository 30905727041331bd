package inventory

import (
	"context"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Location represents a physical place stock can be received into
type Location struct {
	shared.StoreAggregateRoot
	Name   string
	Code   string
	Active bool
}

// NewLocation creates a new stock location
func NewLocation(storeID uuid.UUID, name, code string) (*Location, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Location name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Location code cannot be empty")
	}
	return &Location{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Code:               code,
		Active:             true,
	}, nil
}

// LocationReader provides read access to locations within a store. A
// location from another store is reported as not found.
type LocationReader interface {
	FindByID(ctx context.Context, storeID, locationID uuid.UUID) (*Location, error)
}
