package order

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-001", uuid.New(), "Test Supplier", "USD", decimal.NewFromInt(1))
	require.NoError(t, err)
	return order
}

func addTestPurchaseOrderLine(t *testing.T, order *PurchaseOrder, sku string, quantity, price int64) *PurchaseOrderLine {
	t.Helper()
	line, err := order.AddLine(uuid.New(), sku, "Test Item", "KG",
		decimal.NewFromInt(quantity), decimal.NewFromInt(price), decimal.Zero)
	require.NoError(t, err)
	return line
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		// From DRAFT
		{PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusPartialReceived, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		// From APPROVED
		{PurchaseOrderStatusApproved, PurchaseOrderStatusPartialReceived, true},
		{PurchaseOrderStatusApproved, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusApproved, PurchaseOrderStatusCancelled, false}, // Approved orders cannot be cancelled
		{PurchaseOrderStatusApproved, PurchaseOrderStatusDraft, false},
		// From PARTIAL_RECEIVED
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusPartialReceived, true},
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusCancelled, false},
		// Terminal states
		{PurchaseOrderStatusReceived, PurchaseOrderStatusPartialReceived, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusApproved, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusApproved, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchaseOrder_Validation(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()
	one := decimal.NewFromInt(1)

	_, err := NewPurchaseOrder(tenantID, "", supplierID, "Supplier", "USD", one)
	require.Error(t, err)

	_, err = NewPurchaseOrder(tenantID, "PO-1", uuid.Nil, "Supplier", "USD", one)
	require.Error(t, err)

	_, err = NewPurchaseOrder(tenantID, "PO-1", supplierID, "Supplier", "DOLLARS", one)
	require.Error(t, err)

	_, err = NewPurchaseOrder(tenantID, "PO-1", supplierID, "Supplier", "USD", decimal.Zero)
	require.Error(t, err)
}

func TestPurchaseOrder_DraftLineEditing(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line := addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)

	assert.Equal(t, "50", order.TotalAmount.String())

	// Same item in the same unit cannot be added twice.
	_, err := order.AddLine(line.ItemID, "SKU-001", "Test Item", "KG",
		decimal.NewFromInt(1), decimal.NewFromInt(5), decimal.Zero)
	require.Error(t, err)

	require.NoError(t, order.UpdateLineQuantity(line.ID, decimal.NewFromInt(20)))
	assert.Equal(t, "100", order.TotalAmount.String())

	require.NoError(t, order.UpdateLinePricing(line.ID, decimal.NewFromInt(10), decimal.NewFromInt(10)))
	assert.Equal(t, "180", order.TotalAmount.String(), "10% discount on 20 * 10")

	require.NoError(t, order.RemoveLine(line.ID))
	assert.True(t, order.TotalAmount.IsZero())
}

func TestPurchaseOrder_CannotEditAfterApproval(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line := addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)
	require.NoError(t, order.Approve())

	_, err := order.AddLine(uuid.New(), "SKU-002", "Other", "KG", decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero)
	require.Error(t, err)
	require.Error(t, order.UpdateLineQuantity(line.ID, decimal.NewFromInt(5)))
	require.Error(t, order.RemoveLine(line.ID))
}

func TestPurchaseOrder_Approve(t *testing.T) {
	order := createTestPurchaseOrder(t)

	err := order.Approve()
	require.Error(t, err, "cannot approve an order without lines")

	addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)
	require.NoError(t, order.Approve())
	assert.Equal(t, PurchaseOrderStatusApproved, order.Status)
	assert.NotNil(t, order.ApprovedAt)

	err = order.Approve()
	require.Error(t, err, "cannot approve twice")
}

func TestPurchaseOrder_ApplyFulfillment(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line := addTestPurchaseOrderLine(t, order, "SKU-001", 100, 5)

	// Draft orders cannot fulfill.
	err := order.ApplyFulfillment(line.ID, decimal.NewFromInt(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOrderNotApproved))

	require.NoError(t, order.Approve())

	require.NoError(t, order.ApplyFulfillment(line.ID, decimal.NewFromInt(60)))
	assert.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)
	assert.Equal(t, "60", order.GetLine(line.ID).FulfilledQuantity.String())
	assert.Equal(t, "40", order.GetLine(line.ID).RemainingQuantity().String())
	assert.False(t, order.IsFullyFulfilled())

	// More than the remaining 40 is rejected and nothing changes.
	err = order.ApplyFulfillment(line.ID, decimal.NewFromInt(41))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOverFulfill))
	assert.Equal(t, "60", order.GetLine(line.ID).FulfilledQuantity.String())

	require.NoError(t, order.ApplyFulfillment(line.ID, decimal.NewFromInt(40)))
	assert.True(t, order.GetLine(line.ID).IsFulfilled())
	assert.True(t, order.IsFullyFulfilled())

	// A second full-remaining call must over-fulfill.
	err = order.ApplyFulfillment(line.ID, decimal.NewFromInt(40))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOverFulfill))
}

func TestPurchaseOrder_Close(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line := addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)
	require.NoError(t, order.Approve())

	err := order.Close()
	require.Error(t, err, "cannot close with outstanding lines")

	require.NoError(t, order.ApplyFulfillment(line.ID, decimal.NewFromInt(10)))
	require.NoError(t, order.Close())
	assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	assert.NotNil(t, order.ClosedAt)
	assert.True(t, order.IsTerminal())

	err = order.ApplyFulfillment(line.ID, decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)

	err := order.Cancel("")
	require.Error(t, err, "cancel requires a reason")

	require.NoError(t, order.Cancel("supplier out of business"))
	assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
	assert.Equal(t, "supplier out of business", order.CancelReason)
}

func TestPurchaseOrder_CancelApprovedRejected(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)
	require.NoError(t, order.Approve())

	err := order.Cancel("changed our mind")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestPurchaseOrderLine_NetUnitPrice(t *testing.T) {
	order, err := NewPurchaseOrder(uuid.New(), "PO-FX", uuid.New(), "Supplier", "EUR", decimal.RequireFromString("1.1"))
	require.NoError(t, err)

	line, err := order.AddLine(uuid.New(), "SKU-001", "Item", "KG",
		decimal.NewFromInt(10), decimal.NewFromInt(200), decimal.NewFromInt(25))
	require.NoError(t, err)

	assert.Equal(t, "150", line.NetUnitPrice().String())
	assert.Equal(t, "1500", line.LineAmount().String())
	assert.Equal(t, "1500", order.TotalAmount.String())
	assert.Equal(t, "1650", order.TotalAmountBase().String())
}

func TestPurchaseOrder_OutstandingLines(t *testing.T) {
	order := createTestPurchaseOrder(t)
	l1 := addTestPurchaseOrderLine(t, order, "SKU-001", 10, 5)
	addTestPurchaseOrderLine(t, order, "SKU-002", 20, 3)
	require.NoError(t, order.Approve())

	require.NoError(t, order.ApplyFulfillment(l1.ID, decimal.NewFromInt(10)))

	outstanding := order.OutstandingLines()
	require.Len(t, outstanding, 1)
	assert.Equal(t, "SKU-002", outstanding[0].ItemSKU)
}
