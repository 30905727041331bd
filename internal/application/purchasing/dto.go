package purchasing

import (
	"time"

	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                      `json:"supplier_id" binding:"required"`
	Lines        []CreatePurchaseOrderLineInput `json:"lines" binding:"required,min=1,dive"`
	Notes        string                         `json:"notes" binding:"omitempty,max=2000"`
	OrderDate    *time.Time                     `json:"order_date"`
	ExpectedDate *time.Time                     `json:"expected_date"`
	CreatedBy    *uuid.UUID                     `json:"-"`
}

// CreatePurchaseOrderLineInput represents a line in the create order request
type CreatePurchaseOrderLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// UpdatePurchaseOrderRequest represents a request to update order header fields
type UpdatePurchaseOrderRequest struct {
	SupplierID   *uuid.UUID `json:"supplier_id"`
	Notes        *string    `json:"notes" binding:"omitempty,max=2000"`
	ExpectedDate *time.Time `json:"expected_date"`
}

// SerializedUnitInput describes one serialized unit in a receive request
type SerializedUnitInput struct {
	SerialNumber string `json:"serial_number" binding:"required,min=1,max=100"`
	Condition    string `json:"condition" binding:"omitempty,oneof=NEW OPEN_BOX REFURBISHED DAMAGED"`
	Notes        string `json:"notes" binding:"omitempty,max=500"`
}

// ReceiveLineRequest represents a request to receive goods against one line.
// Quantity deliberately carries no binding rule: non-positive values must
// reach the service so they surface as INVALID_QUANTITY, not a binding error.
type ReceiveLineRequest struct {
	Quantity        int64                 `json:"quantity"`
	LocationID      uuid.UUID             `json:"location_id" binding:"required"`
	SerializedUnits []SerializedUnitInput `json:"serialized_units" binding:"omitempty,dive"`
	ReceivedBy      *uuid.UUID            `json:"-"`
}

// PurchaseOrderListFilter represents filter options for the order list
type PurchaseOrderListFilter struct {
	Search     string                     `form:"search"`
	SupplierID *uuid.UUID                 `form:"supplier_id"`
	Status     *purchasing.Status         `form:"status"`
	Page       int                        `form:"page" binding:"omitempty,min=1"`
	PageSize   int                        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string                     `form:"order_by"`
	OrderDir   string                     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateNumberingConfigRequest represents a request to change PO number formatting
type UpdateNumberingConfigRequest struct {
	Prefix  string `json:"prefix" binding:"required,min=1,max=10"`
	Padding int    `json:"padding" binding:"required,min=1,max=12"`
}

// ==================== Responses ====================

// NumberingConfigResponse represents the store's PO number settings
type NumberingConfigResponse struct {
	Prefix       string `json:"prefix"`
	Padding      int    `json:"padding"`
	LastSequence int64  `json:"last_sequence"`
}

// PurchaseOrderLineResponse represents a purchase order line in API responses
type PurchaseOrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	ReceivedQuantity  int64           `json:"received_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Amount            decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID               uuid.UUID                   `json:"id"`
	StoreID          uuid.UUID                   `json:"store_id"`
	PONumber         string                      `json:"po_number"`
	SupplierID       uuid.UUID                   `json:"supplier_id"`
	SupplierName     string                      `json:"supplier_name"`
	Lines            []PurchaseOrderLineResponse `json:"lines"`
	LineCount        int                         `json:"line_count"`
	OrderedQuantity  int64                       `json:"ordered_quantity"`
	ReceivedQuantity int64                       `json:"received_quantity"`
	TotalAmount      decimal.Decimal             `json:"total_amount"`
	Status           string                      `json:"status"`
	Notes            string                      `json:"notes,omitempty"`
	OrderDate        time.Time                   `json:"order_date"`
	ExpectedDate     *time.Time                  `json:"expected_date,omitempty"`
	ReceivedDate     *time.Time                  `json:"received_date,omitempty"`
	CancelledAt      *time.Time                  `json:"cancelled_at,omitempty"`
	ClosedAt         *time.Time                  `json:"closed_at,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	Version          int                         `json:"version"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses
type PurchaseOrderListItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	PONumber         string          `json:"po_number"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name"`
	LineCount        int             `json:"line_count"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	OrderDate        time.Time       `json:"order_date"`
	ExpectedDate     *time.Time      `json:"expected_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// StatusSummaryResponse represents order counts grouped by status
type StatusSummaryResponse struct {
	Draft             int64 `json:"draft"`
	Ordered           int64 `json:"ordered"`
	PartiallyReceived int64 `json:"partially_received"`
	Received          int64 `json:"received"`
	Cancelled         int64 `json:"cancelled"`
	Closed            int64 `json:"closed"`
	Total             int64 `json:"total"`
}

// ==================== Converters ====================

// ToPurchaseOrderLineResponse converts a domain line to a response DTO
func ToPurchaseOrderLineResponse(line *purchasing.PurchaseOrderLine) PurchaseOrderLineResponse {
	return PurchaseOrderLineResponse{
		ID:                line.ID,
		ProductID:         line.ProductID,
		ProductName:       line.ProductName,
		SKU:               line.SKU,
		OrderedQuantity:   line.OrderedQuantity,
		ReceivedQuantity:  line.ReceivedQuantity,
		RemainingQuantity: line.RemainingQuantity(),
		UnitCost:          line.UnitCost,
		Amount:            line.Amount(),
	}
}

// ToPurchaseOrderResponse converts a domain order to a response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(order.Lines))
	for idx := range order.Lines {
		lines = append(lines, ToPurchaseOrderLineResponse(&order.Lines[idx]))
	}

	return PurchaseOrderResponse{
		ID:               order.ID,
		StoreID:          order.StoreID,
		PONumber:         order.PONumber,
		SupplierID:       order.SupplierID,
		SupplierName:     order.SupplierName,
		Lines:            lines,
		LineCount:        order.LineCount(),
		OrderedQuantity:  order.TotalOrderedQuantity(),
		ReceivedQuantity: order.TotalReceivedQuantity(),
		TotalAmount:      order.TotalAmount,
		Status:           order.Status.String(),
		Notes:            order.Notes,
		OrderDate:        order.OrderDate,
		ExpectedDate:     order.ExpectedDate,
		ReceivedDate:     order.ReceivedDate,
		CancelledAt:      order.CancelledAt,
		ClosedAt:         order.ClosedAt,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		Version:          order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts a domain order to a list item DTO
func ToPurchaseOrderListItemResponse(order *purchasing.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:               order.ID,
		PONumber:         order.PONumber,
		SupplierID:       order.SupplierID,
		SupplierName:     order.SupplierName,
		LineCount:        order.LineCount(),
		OrderedQuantity:  order.TotalOrderedQuantity(),
		ReceivedQuantity: order.TotalReceivedQuantity(),
		TotalAmount:      order.TotalAmount,
		Status:           order.Status.String(),
		OrderDate:        order.OrderDate,
		ExpectedDate:     order.ExpectedDate,
		CreatedAt:        order.CreatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list item DTOs
func ToPurchaseOrderListItemResponses(orders []*purchasing.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToPurchaseOrderListItemResponse(order))
	}
	return responses
}

// ToStatusSummaryResponse converts status counts to a summary DTO
func ToStatusSummaryResponse(counts map[purchasing.Status]int64) StatusSummaryResponse {
	summary := StatusSummaryResponse{
		Draft:             counts[purchasing.StatusDraft],
		Ordered:           counts[purchasing.StatusOrdered],
		PartiallyReceived: counts[purchasing.StatusPartiallyReceived],
		Received:          counts[purchasing.StatusReceived],
		Cancelled:         counts[purchasing.StatusCancelled],
		Closed:            counts[purchasing.StatusClosed],
	}
	summary.Total = summary.Draft + summary.Ordered + summary.PartiallyReceived +
		summary.Received + summary.Cancelled + summary.Closed
	return summary
}
