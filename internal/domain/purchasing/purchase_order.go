package purchasing

import (
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a purchase order
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusOrdered           Status = "ORDERED"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusReceived          Status = "RECEIVED"
	StatusCancelled         Status = "CANCELLED"
	StatusClosed            Status = "CLOSED"
)

// IsValid checks if the status is a valid purchase order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusPartiallyReceived,
		StatusReceived, StatusCancelled, StatusClosed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanReceive returns true if receiving goods is allowed in this status
func (s Status) CanReceive() bool {
	return s == StatusOrdered || s == StatusPartiallyReceived
}

// CanUpdate returns true if header fields may still be modified
func (s Status) CanUpdate() bool {
	return s == StatusDraft || s == StatusOrdered
}

// IsTerminal returns true for states that permit no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusClosed
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusOrdered || target == StatusCancelled
	case StatusOrdered:
		return target == StatusPartiallyReceived || target == StatusReceived || target == StatusCancelled
	case StatusPartiallyReceived:
		return target == StatusPartiallyReceived || target == StatusReceived
	case StatusReceived:
		return target == StatusClosed
	case StatusCancelled, StatusClosed:
		return false
	}
	return false
}

// DeriveStatus computes the receipt status implied by the lines alone.
// It returns StatusReceived when every line is fully received,
// StatusPartiallyReceived when at least one unit has been received, and
// StatusOrdered otherwise. Cancellation and closure are explicit actions
// and are never derived.
func DeriveStatus(lines []PurchaseOrderLine) Status {
	if len(lines) == 0 {
		return StatusOrdered
	}
	allReceived := true
	anyReceived := false
	for i := range lines {
		if lines[i].ReceivedQuantity > 0 {
			anyReceived = true
		}
		if lines[i].ReceivedQuantity < lines[i].OrderedQuantity {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		return StatusReceived
	case anyReceived:
		return StatusPartiallyReceived
	default:
		return StatusOrdered
	}
}

// PurchaseOrderLine represents a product entry within a purchase order.
// Lines are created together with the order header and are never deleted;
// the only mutable field is ReceivedQuantity.
type PurchaseOrderLine struct {
	ID               uuid.UUID
	PurchaseOrderID  uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	SKU              string
	OrderedQuantity  int64
	ReceivedQuantity int64
	UnitCost         decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPurchaseOrderLine creates a new purchase order line
func NewPurchaseOrderLine(orderID, productID uuid.UUID, productName, sku string, quantity int64, unitCost valueobject.Money) (*PurchaseOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Ordered quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:               uuid.New(),
		PurchaseOrderID:  orderID,
		ProductID:        productID,
		ProductName:      productName,
		SKU:              sku,
		OrderedQuantity:  quantity,
		ReceivedQuantity: 0,
		UnitCost:         unitCost.Amount(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Amount returns OrderedQuantity * UnitCost as an exact decimal
func (l *PurchaseOrderLine) Amount() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.OrderedQuantity))
}

// RemainingQuantity returns the quantity still to be received
func (l *PurchaseOrderLine) RemainingQuantity() int64 {
	remaining := l.OrderedQuantity - l.ReceivedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity >= l.OrderedQuantity
}

// AddReceivedQuantity adds to the received quantity, keeping
// 0 <= ReceivedQuantity <= OrderedQuantity at all times.
func (l *PurchaseOrderLine) AddReceivedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Receive quantity must be positive")
	}
	if quantity > l.RemainingQuantity() {
		return shared.NewDomainError(shared.CodeInvalidQuantity,
			fmt.Sprintf("Cannot receive %d, only %d remaining", quantity, l.RemainingQuantity()))
	}

	l.ReceivedQuantity += quantity
	l.UpdatedAt = time.Now()

	return nil
}

// GetUnitCostMoney returns the unit cost as Money value object
func (l *PurchaseOrderLine) GetUnitCostMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.UnitCost)
}

// PurchaseOrder represents a purchase order aggregate root.
// It owns its lines exclusively and manages the document lifecycle from
// placement through receiving to a terminal state.
type PurchaseOrder struct {
	shared.StoreAggregateRoot
	PONumber     string
	SupplierID   uuid.UUID
	SupplierName string
	Lines        []PurchaseOrderLine
	TotalAmount  decimal.Decimal
	Status       Status
	Notes        string
	OrderDate    time.Time
	ExpectedDate *time.Time
	ReceivedDate *time.Time
	CancelledAt  *time.Time
	ClosedAt     *time.Time
}

// NewPurchaseOrder creates a new purchase order in DRAFT status. Lines are
// added with AddLine and the order becomes ORDERED via Place; both happen
// within the single transaction that creates the document.
func NewPurchaseOrder(storeID uuid.UUID, poNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "PO number cannot be empty")
	}
	if len(poNumber) > 50 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "PO number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier ID cannot be empty")
	}

	order := &PurchaseOrder{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		PONumber:           poNumber,
		SupplierID:         supplierID,
		SupplierName:       supplierName,
		Lines:              make([]PurchaseOrderLine, 0),
		TotalAmount:        decimal.Zero,
		Status:             StatusDraft,
		OrderDate:          time.Now(),
	}

	return order, nil
}

// AddLine adds a new line to the order. Only allowed before placement.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, productName, sku string, quantity int64, unitCost valueobject.Money) (*PurchaseOrderLine, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Lines cannot be added after the order is placed")
	}

	line, err := NewPurchaseOrderLine(o.ID, productID, productName, sku, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.Touch()

	return line, nil
}

// SetNotes sets the order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
}

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(expected *time.Time) {
	o.ExpectedDate = expected
	o.Touch()
}

// SetOrderDate overrides the order date (defaults to creation time)
func (o *PurchaseOrder) SetOrderDate(orderDate time.Time) {
	o.OrderDate = orderDate
	o.Touch()
}

// Place transitions the order from DRAFT to ORDERED. Requires at least one line.
func (o *PurchaseOrder) Place() error {
	if !o.Status.CanTransitionTo(StatusOrdered) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot place order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Cannot place order without lines")
	}

	o.Status = StatusOrdered
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderCreatedEvent(o))

	return nil
}

// ChangeSupplier changes the supplier reference. Only permitted while the
// order is still updatable; caller is responsible for validating that the
// new supplier belongs to the same store.
func (o *PurchaseOrder) ChangeSupplier(supplierID uuid.UUID, supplierName string) error {
	if !o.Status.CanUpdate() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot update order in %s status", o.Status))
	}
	if supplierID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier ID cannot be empty")
	}

	o.SupplierID = supplierID
	o.SupplierName = supplierName
	o.Touch()

	return nil
}

// UpdateNotes updates the notes field. Only permitted while updatable.
func (o *PurchaseOrder) UpdateNotes(notes string) error {
	if !o.Status.CanUpdate() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot update order in %s status", o.Status))
	}
	o.Notes = notes
	o.Touch()
	return nil
}

// UpdateExpectedDate updates the expected delivery date. Only permitted while updatable.
func (o *PurchaseOrder) UpdateExpectedDate(expected *time.Time) error {
	if !o.Status.CanUpdate() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot update order in %s status", o.Status))
	}
	o.ExpectedDate = expected
	o.Touch()
	return nil
}

// ReceiveLine records a receipt of quantity units against one line and
// recomputes the order status from the full set of lines. The status write
// is skipped when unchanged; ReceivedDate is stamped exactly once, when the
// order first becomes fully received.
func (o *PurchaseOrder) ReceiveLine(lineID uuid.UUID, quantity int64) (*PurchaseOrderLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}

	line := o.GetLine(lineID)
	if line == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Purchase order line not found")
	}

	if err := line.AddReceivedQuantity(quantity); err != nil {
		return nil, err
	}

	derived := DeriveStatus(o.Lines)
	if derived != o.Status {
		o.Status = derived
		if derived == StatusReceived && o.ReceivedDate == nil {
			now := time.Now()
			o.ReceivedDate = &now
		}
	}

	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderLineReceivedEvent(o, line, quantity))
	if o.Status == StatusReceived {
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	}

	return line, nil
}

// Cancel cancels the order. Allowed only in DRAFT or ORDERED status;
// partially received orders must have their receipts resolved out of band
// first, since no stock reversal is performed here.
func (o *PurchaseOrder) Cancel() error {
	if o.Status == StatusPartiallyReceived {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot cancel a partially received order; resolve received goods first")
	}
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// Close administratively closes a fully received order.
func (o *PurchaseOrder) Close() error {
	if !o.Status.CanTransitionTo(StatusClosed) {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot close order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = StatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderClosedEvent(o))

	return nil
}

// recalculateTotal recomputes the order total from the lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Amount())
	}
	o.TotalAmount = total
}

// GetLine returns a line by its ID
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByProduct returns a line by product ID
func (o *PurchaseOrder) GetLineByProduct(productID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// TotalOrderedQuantity returns the total ordered quantity across lines
func (o *PurchaseOrder) TotalOrderedQuantity() int64 {
	var total int64
	for i := range o.Lines {
		total += o.Lines[i].OrderedQuantity
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across lines
func (o *PurchaseOrder) TotalReceivedQuantity() int64 {
	var total int64
	for i := range o.Lines {
		total += o.Lines[i].ReceivedQuantity
	}
	return total
}

// TotalRemainingQuantity returns the total quantity still to be received
func (o *PurchaseOrder) TotalRemainingQuantity() int64 {
	var total int64
	for i := range o.Lines {
		total += o.Lines[i].RemainingQuantity()
	}
	return total
}

// GetTotalAmountMoney returns total amount as Money
func (o *PurchaseOrder) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// LineCount returns the number of lines in the order
func (o *PurchaseOrder) LineCount() int {
	return len(o.Lines)
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsReceived returns true if the order is fully received
func (o *PurchaseOrder) IsReceived() bool {
	return o.Status == StatusReceived
}

// CanReceiveGoods returns true if the order can receive goods
func (o *PurchaseOrder) CanReceiveGoods() bool {
	return o.Status.CanReceive()
}
