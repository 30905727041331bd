package purchasing

import (
	"testing"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), "Acme Wholesale")
	require.NoError(t, err)
	return order
}

func newPlacedOrder(t *testing.T, quantities ...int64) *PurchaseOrder {
	t.Helper()
	order := newTestOrder(t)
	for _, qty := range quantities {
		_, err := order.AddLine(uuid.New(), "Widget", "WID-001", qty, valueobject.NewMoneyUSDFromFloat(9.99))
		require.NoError(t, err)
	}
	require.NoError(t, order.Place())
	order.ClearDomainEvents()
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	storeID := uuid.New()
	supplierID := uuid.New()

	order, err := NewPurchaseOrder(storeID, "PO-2026-00001", supplierID, "Acme Wholesale")
	require.NoError(t, err)

	assert.Equal(t, storeID, order.StoreID)
	assert.Equal(t, "PO-2026-00001", order.PONumber)
	assert.Equal(t, supplierID, order.SupplierID)
	assert.Equal(t, StatusDraft, order.Status)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Empty(t, order.Lines)
	assert.False(t, order.OrderDate.IsZero())
}

func TestNewPurchaseOrder_Validation(t *testing.T) {
	tests := []struct {
		name       string
		poNumber   string
		supplierID uuid.UUID
		wantCode   string
	}{
		{"empty PO number", "", uuid.New(), shared.CodeInvalidInput},
		{"empty supplier", "PO-2026-00001", uuid.Nil, shared.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPurchaseOrder(uuid.New(), tt.poNumber, tt.supplierID, "Acme")
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestPurchaseOrder_AddLine(t *testing.T) {
	order := newTestOrder(t)

	line, err := order.AddLine(uuid.New(), "Widget", "WID-001", 10, valueobject.NewMoneyUSDFromFloat(2.50))
	require.NoError(t, err)

	assert.Equal(t, int64(10), line.OrderedQuantity)
	assert.Equal(t, int64(0), line.ReceivedQuantity)
	assert.Equal(t, 1, order.LineCount())
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25")))
}

func TestPurchaseOrder_AddLine_Validation(t *testing.T) {
	order := newTestOrder(t)

	_, err := order.AddLine(uuid.Nil, "Widget", "WID-001", 10, valueobject.ZeroUSD())
	require.Error(t, err)

	_, err = order.AddLine(uuid.New(), "Widget", "WID-001", 0, valueobject.ZeroUSD())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)

	_, err = order.AddLine(uuid.New(), "Widget", "WID-001", -5, valueobject.ZeroUSD())
	require.Error(t, err)
}

func TestPurchaseOrder_AddLine_AfterPlacement(t *testing.T) {
	order := newPlacedOrder(t, 10)

	_, err := order.AddLine(uuid.New(), "Gadget", "GAD-001", 5, valueobject.ZeroUSD())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
}

func TestPurchaseOrder_Place(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.AddLine(uuid.New(), "Widget", "WID-001", 10, valueobject.NewMoneyUSDFromFloat(1.00))
	require.NoError(t, err)

	require.NoError(t, order.Place())

	assert.Equal(t, StatusOrdered, order.Status)
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPurchaseOrderCreated, events[0].EventType())
}

func TestPurchaseOrder_Place_WithoutLines(t *testing.T) {
	order := newTestOrder(t)

	err := order.Place()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
}

func TestDeriveStatus(t *testing.T) {
	line := func(ordered, received int64) PurchaseOrderLine {
		return PurchaseOrderLine{OrderedQuantity: ordered, ReceivedQuantity: received}
	}

	tests := []struct {
		name  string
		lines []PurchaseOrderLine
		want  Status
	}{
		{"no lines", nil, StatusOrdered},
		{"nothing received", []PurchaseOrderLine{line(10, 0), line(5, 0)}, StatusOrdered},
		{"one line partial", []PurchaseOrderLine{line(10, 3), line(5, 0)}, StatusPartiallyReceived},
		{"one line full, one untouched", []PurchaseOrderLine{line(10, 10), line(5, 0)}, StatusPartiallyReceived},
		{"all full", []PurchaseOrderLine{line(10, 10), line(5, 5)}, StatusReceived},
		{"single line full", []PurchaseOrderLine{line(1, 1)}, StatusReceived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.lines))
		})
	}
}

func TestPurchaseOrder_ReceiveLine_Partial(t *testing.T) {
	order := newPlacedOrder(t, 10)
	lineID := order.Lines[0].ID

	line, err := order.ReceiveLine(lineID, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(4), line.ReceivedQuantity)
	assert.Equal(t, int64(6), line.RemainingQuantity())
	assert.Equal(t, StatusPartiallyReceived, order.Status)
	assert.Nil(t, order.ReceivedDate)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPurchaseOrderLineReceived, events[0].EventType())
}

func TestPurchaseOrder_ReceiveLine_Complete(t *testing.T) {
	order := newPlacedOrder(t, 10, 5)

	_, err := order.ReceiveLine(order.Lines[0].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyReceived, order.Status)

	_, err = order.ReceiveLine(order.Lines[1].ID, 5)
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, order.Status)
	require.NotNil(t, order.ReceivedDate)
	assert.Equal(t, int64(0), order.TotalRemainingQuantity())

	var gotReceived bool
	for _, event := range order.GetDomainEvents() {
		if event.EventType() == EventPurchaseOrderReceived {
			gotReceived = true
		}
	}
	assert.True(t, gotReceived)
}

func TestPurchaseOrder_ReceiveLine_MultipleIncrements(t *testing.T) {
	order := newPlacedOrder(t, 10)
	lineID := order.Lines[0].ID

	for _, qty := range []int64{3, 3, 4} {
		_, err := order.ReceiveLine(lineID, qty)
		require.NoError(t, err)
	}

	assert.Equal(t, StatusReceived, order.Status)
	assert.Equal(t, int64(10), order.Lines[0].ReceivedQuantity)
}

func TestPurchaseOrder_ReceiveLine_ReceivedDateStampedOnce(t *testing.T) {
	order := newPlacedOrder(t, 2, 3)

	_, err := order.ReceiveLine(order.Lines[0].ID, 2)
	require.NoError(t, err)
	require.Nil(t, order.ReceivedDate)

	_, err = order.ReceiveLine(order.Lines[1].ID, 3)
	require.NoError(t, err)
	require.NotNil(t, order.ReceivedDate)

	first := *order.ReceivedDate
	_, err = order.ReceiveLine(order.Lines[0].ID, 1)
	require.Error(t, err)
	assert.Equal(t, first, *order.ReceivedDate)
}

func TestPurchaseOrder_ReceiveLine_OverReceive(t *testing.T) {
	order := newPlacedOrder(t, 10)
	lineID := order.Lines[0].ID

	_, err := order.ReceiveLine(lineID, 11)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
	assert.Equal(t, int64(0), order.Lines[0].ReceivedQuantity)
	assert.Equal(t, StatusOrdered, order.Status)

	_, err = order.ReceiveLine(lineID, 7)
	require.NoError(t, err)
	_, err = order.ReceiveLine(lineID, 4)
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
	assert.Equal(t, int64(7), order.Lines[0].ReceivedQuantity)
}

func TestPurchaseOrder_ReceiveLine_NonPositiveQuantity(t *testing.T) {
	order := newPlacedOrder(t, 10)
	lineID := order.Lines[0].ID

	for _, qty := range []int64{0, -3} {
		_, err := order.ReceiveLine(lineID, qty)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
	}
}

func TestPurchaseOrder_ReceiveLine_UnknownLine(t *testing.T) {
	order := newPlacedOrder(t, 10)

	_, err := order.ReceiveLine(uuid.New(), 1)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}

func TestPurchaseOrder_ReceiveLine_InvalidStates(t *testing.T) {
	cancelled := newPlacedOrder(t, 10)
	require.NoError(t, cancelled.Cancel())

	received := newPlacedOrder(t, 1)
	_, err := received.ReceiveLine(received.Lines[0].ID, 1)
	require.NoError(t, err)

	closed := newPlacedOrder(t, 1)
	_, err = closed.ReceiveLine(closed.Lines[0].ID, 1)
	require.NoError(t, err)
	require.NoError(t, closed.Close())

	for name, order := range map[string]*PurchaseOrder{
		"cancelled": cancelled,
		"received":  received,
		"closed":    closed,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := order.ReceiveLine(order.Lines[0].ID, 1)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
		})
	}
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	order := newPlacedOrder(t, 10)

	require.NoError(t, order.Cancel())

	assert.Equal(t, StatusCancelled, order.Status)
	require.NotNil(t, order.CancelledAt)
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPurchaseOrderCancelled, events[0].EventType())
}

func TestPurchaseOrder_Cancel_Draft(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel())
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestPurchaseOrder_Cancel_PartiallyReceived(t *testing.T) {
	order := newPlacedOrder(t, 10)
	_, err := order.ReceiveLine(order.Lines[0].ID, 3)
	require.NoError(t, err)

	err = order.Cancel()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
	assert.Contains(t, domainErr.Message, "partially received")
	assert.Equal(t, StatusPartiallyReceived, order.Status)
}

func TestPurchaseOrder_Cancel_Terminal(t *testing.T) {
	order := newPlacedOrder(t, 1)
	_, err := order.ReceiveLine(order.Lines[0].ID, 1)
	require.NoError(t, err)

	err = order.Cancel()
	require.Error(t, err)

	require.NoError(t, order.Close())
	err = order.Cancel()
	require.Error(t, err)

	cancelled := newPlacedOrder(t, 1)
	require.NoError(t, cancelled.Cancel())
	err = cancelled.Cancel()
	require.Error(t, err)
}

func TestPurchaseOrder_Close(t *testing.T) {
	order := newPlacedOrder(t, 1)
	_, err := order.ReceiveLine(order.Lines[0].ID, 1)
	require.NoError(t, err)

	require.NoError(t, order.Close())
	assert.Equal(t, StatusClosed, order.Status)
	require.NotNil(t, order.ClosedAt)
}

func TestPurchaseOrder_Close_NotReceived(t *testing.T) {
	for name, order := range map[string]*PurchaseOrder{
		"ordered": newPlacedOrder(t, 10),
		"draft":   newTestOrder(t),
	} {
		t.Run(name, func(t *testing.T) {
			err := order.Close()
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
		})
	}
}

func TestPurchaseOrder_UpdateGuards(t *testing.T) {
	order := newPlacedOrder(t, 10)

	require.NoError(t, order.UpdateNotes("rush delivery"))
	require.NoError(t, order.ChangeSupplier(uuid.New(), "Globex"))

	_, err := order.ReceiveLine(order.Lines[0].ID, 3)
	require.NoError(t, err)

	err = order.UpdateNotes("too late")
	require.Error(t, err)
	err = order.ChangeSupplier(uuid.New(), "Initech")
	require.Error(t, err)
	err = order.UpdateExpectedDate(nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
}

func TestPurchaseOrder_TotalAmount(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.AddLine(uuid.New(), "Widget", "WID-001", 3, valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	_, err = order.AddLine(uuid.New(), "Gadget", "GAD-001", 2, valueobject.NewMoneyUSDFromFloat(0.05))
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("60.07")),
		"got %s", order.TotalAmount)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusOrdered))
	assert.True(t, StatusDraft.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusDraft.CanTransitionTo(StatusReceived))

	assert.True(t, StatusOrdered.CanTransitionTo(StatusPartiallyReceived))
	assert.True(t, StatusOrdered.CanTransitionTo(StatusCancelled))

	assert.True(t, StatusPartiallyReceived.CanTransitionTo(StatusReceived))
	assert.False(t, StatusPartiallyReceived.CanTransitionTo(StatusCancelled))

	assert.True(t, StatusReceived.CanTransitionTo(StatusClosed))
	assert.False(t, StatusReceived.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusCancelled.CanTransitionTo(StatusOrdered))
	assert.False(t, StatusClosed.CanTransitionTo(StatusOrdered))
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusOrdered, StatusPartiallyReceived, StatusReceived, StatusCancelled, StatusClosed} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("SHIPPED").IsValid())
	assert.False(t, Status("").IsValid())
}
