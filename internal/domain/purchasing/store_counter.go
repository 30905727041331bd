package purchasing

import (
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Defaults applied when a store has no counter row yet
const (
	DefaultPONumberPrefix  = "PO"
	DefaultPONumberPadding = 5
)

// StoreCounter holds the per-store sequence state used to allocate purchase
// order numbers. There is exactly one row per store; allocation increments
// LastPONumber atomically so two concurrent creations can never observe the
// same value.
type StoreCounter struct {
	StoreID         uuid.UUID
	LastPONumber    int64
	PONumberPrefix  string
	PONumberPadding int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewStoreCounter creates a counter with default formatting settings
func NewStoreCounter(storeID uuid.UUID) (*StoreCounter, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Store ID cannot be empty")
	}
	now := time.Now()
	return &StoreCounter{
		StoreID:         storeID,
		LastPONumber:    0,
		PONumberPrefix:  DefaultPONumberPrefix,
		PONumberPadding: DefaultPONumberPadding,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PONumber renders the current sequence value as a document number,
// e.g. prefix "PO", year 2026, padding 5, sequence 42 -> "PO-2026-00042".
// Sequences wider than the padding are rendered without truncation.
func (c *StoreCounter) PONumber(year int) string {
	prefix := c.PONumberPrefix
	if prefix == "" {
		prefix = DefaultPONumberPrefix
	}
	padding := c.PONumberPadding
	if padding <= 0 {
		padding = DefaultPONumberPadding
	}
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, padding, c.LastPONumber)
}

// Configure updates the number formatting settings
func (c *StoreCounter) Configure(prefix string, padding int) error {
	if prefix == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "PO number prefix cannot be empty")
	}
	if len(prefix) > 10 {
		return shared.NewDomainError(shared.CodeInvalidInput, "PO number prefix cannot exceed 10 characters")
	}
	if padding < 1 || padding > 12 {
		return shared.NewDomainError(shared.CodeInvalidInput, "PO number padding must be between 1 and 12")
	}
	c.PONumberPrefix = prefix
	c.PONumberPadding = padding
	c.UpdatedAt = time.Now()
	return nil
}
