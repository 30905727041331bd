package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ASC; DROP TABLE purchase_orders"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "po_number", ValidateSortField("po_number", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("nonexistent", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("po_number; --", PurchaseOrderSortFields, "created_at"))
}
