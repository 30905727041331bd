package purchasing

import (
	"context"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListFilter describes the supported list query parameters. Search matches
// the PO number and supplier name.
type ListFilter struct {
	shared.Filter
	Status     *Status
	SupplierID *uuid.UUID
}

// PurchaseOrderRepository defines persistence operations for purchase orders.
// Every read is scoped by store ID; an order belonging to a different store
// is reported as not found.
type PurchaseOrderRepository interface {
	// Save persists a new purchase order together with its lines
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists changes with optimistic concurrency control,
	// failing with a conflict when the stored version has moved on
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// FindByID retrieves an order with its lines by ID within a store
	FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrder, error)

	// FindByIDLocked retrieves an order with its lines and acquires a row
	// lock on the order header. Must be called inside a transaction.
	FindByIDLocked(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrder, error)

	// FindByPONumber retrieves an order by its document number within a store
	FindByPONumber(ctx context.Context, storeID uuid.UUID, poNumber string) (*PurchaseOrder, error)

	// FindAll retrieves orders for a store matching the filter
	FindAll(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]*PurchaseOrder, error)

	// Count returns the number of orders for a store matching the filter
	Count(ctx context.Context, storeID uuid.UUID, filter ListFilter) (int64, error)

	// CountByStatus returns order counts grouped by status for a store
	CountByStatus(ctx context.Context, storeID uuid.UUID) (map[Status]int64, error)
}

// StoreCounterRepository allocates per-store document sequence numbers.
type StoreCounterRepository interface {
	// NextPONumber atomically increments the store's purchase order
	// sequence and returns the counter with the allocated value, creating
	// the counter row with defaults on first use. Safe under concurrent
	// callers: no two calls ever observe the same sequence value.
	NextPONumber(ctx context.Context, storeID uuid.UUID) (*StoreCounter, error)

	// Get returns the current counter state for a store, if any
	Get(ctx context.Context, storeID uuid.UUID) (*StoreCounter, error)

	// SaveConfig persists prefix and padding settings for a store
	SaveConfig(ctx context.Context, counter *StoreCounter) error
}
