package purchasing

import (
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the purchasing context
const (
	EventPurchaseOrderCreated      = "purchasing.purchase_order.created"
	EventPurchaseOrderLineReceived = "purchasing.purchase_order.line_received"
	EventPurchaseOrderReceived     = "purchasing.purchase_order.received"
	EventPurchaseOrderCancelled    = "purchasing.purchase_order.cancelled"
	EventPurchaseOrderClosed       = "purchasing.purchase_order.closed"
)

const aggregateTypePurchaseOrder = "PurchaseOrder"

// PurchaseOrderCreatedEvent is emitted when an order is placed
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PONumber    string          `json:"po_number"`
	SupplierID  string          `json:"supplier_id"`
	LineCount   int             `json:"line_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCreated, aggregateTypePurchaseOrder, order.ID, order.StoreID),
		PONumber:        order.PONumber,
		SupplierID:      order.SupplierID.String(),
		LineCount:       len(order.Lines),
		TotalAmount:     order.TotalAmount,
	}
}

// PurchaseOrderLineReceivedEvent is emitted for every successful line receipt
type PurchaseOrderLineReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber         string `json:"po_number"`
	LineID           string `json:"line_id"`
	ProductID        string `json:"product_id"`
	Quantity         int64  `json:"quantity"`
	ReceivedQuantity int64  `json:"received_quantity"`
	OrderedQuantity  int64  `json:"ordered_quantity"`
	OrderStatus      string `json:"order_status"`
}

// NewPurchaseOrderLineReceivedEvent creates a new PurchaseOrderLineReceivedEvent
func NewPurchaseOrderLineReceivedEvent(order *PurchaseOrder, line *PurchaseOrderLine, quantity int64) *PurchaseOrderLineReceivedEvent {
	return &PurchaseOrderLineReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventPurchaseOrderLineReceived, aggregateTypePurchaseOrder, order.ID, order.StoreID),
		PONumber:         order.PONumber,
		LineID:           line.ID.String(),
		ProductID:        line.ProductID.String(),
		Quantity:         quantity,
		ReceivedQuantity: line.ReceivedQuantity,
		OrderedQuantity:  line.OrderedQuantity,
		OrderStatus:      order.Status.String(),
	}
}

// PurchaseOrderReceivedEvent is emitted when the last outstanding unit arrives
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber   string `json:"po_number"`
	SupplierID string `json:"supplier_id"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderReceived, aggregateTypePurchaseOrder, order.ID, order.StoreID),
		PONumber:        order.PONumber,
		SupplierID:      order.SupplierID.String(),
	}
}

// PurchaseOrderCancelledEvent is emitted when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	PONumber string `json:"po_number"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCancelled, aggregateTypePurchaseOrder, order.ID, order.StoreID),
		PONumber:        order.PONumber,
	}
}

// PurchaseOrderClosedEvent is emitted when a received order is closed
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	PONumber string `json:"po_number"`
}

// NewPurchaseOrderClosedEvent creates a new PurchaseOrderClosedEvent
func NewPurchaseOrderClosedEvent(order *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderClosed, aggregateTypePurchaseOrder, order.ID, order.StoreID),
		PONumber:        order.PONumber,
	}
}
