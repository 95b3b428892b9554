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

func createTestSalesOrder(t *testing.T) *SalesOrder {
	t.Helper()
	order, err := NewSalesOrder(uuid.New(), "SO-2026-001", uuid.New(), "Test Customer", "USD", decimal.NewFromInt(1))
	require.NoError(t, err)
	return order
}

func TestSalesOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     SalesOrderStatus
		to       SalesOrderStatus
		canTrans bool
	}{
		{SalesOrderStatusDraft, SalesOrderStatusApproved, true},
		{SalesOrderStatusDraft, SalesOrderStatusCancelled, true},
		{SalesOrderStatusDraft, SalesOrderStatusShipped, false},
		{SalesOrderStatusApproved, SalesOrderStatusPartialShipped, true},
		{SalesOrderStatusApproved, SalesOrderStatusShipped, true},
		{SalesOrderStatusApproved, SalesOrderStatusCancelled, false},
		{SalesOrderStatusPartialShipped, SalesOrderStatusShipped, true},
		{SalesOrderStatusPartialShipped, SalesOrderStatusCancelled, false},
		{SalesOrderStatusShipped, SalesOrderStatusApproved, false},
		{SalesOrderStatusCancelled, SalesOrderStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSalesOrder_Lifecycle(t *testing.T) {
	order := createTestSalesOrder(t)
	line, err := order.AddLine(uuid.New(), "SKU-001", "Test Item", "KG",
		decimal.NewFromInt(100), decimal.NewFromInt(8), decimal.Zero)
	require.NoError(t, err)

	// Draft orders cannot ship.
	err = order.ApplyFulfillment(line.ID, decimal.NewFromInt(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOrderNotApproved))

	require.NoError(t, order.Approve())
	assert.Equal(t, SalesOrderStatusApproved, order.Status)

	require.NoError(t, order.ApplyFulfillment(line.ID, decimal.NewFromInt(60)))
	assert.Equal(t, SalesOrderStatusPartialShipped, order.Status)
	assert.Equal(t, "40", order.GetLine(line.ID).RemainingQuantity().String())

	err = order.ApplyFulfillment(line.ID, decimal.NewFromInt(41))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOverFulfill))

	require.NoError(t, order.ApplyFulfillment(line.ID, decimal.NewFromInt(40)))
	require.NoError(t, order.Close())
	assert.Equal(t, SalesOrderStatusShipped, order.Status)
	assert.True(t, order.IsTerminal())
}

func TestSalesOrder_CancelOnlyFromDraft(t *testing.T) {
	order := createTestSalesOrder(t)
	_, err := order.AddLine(uuid.New(), "SKU-001", "Test Item", "KG",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.Cancel("customer withdrew"))
	assert.Equal(t, SalesOrderStatusCancelled, order.Status)

	approved := createTestSalesOrder(t)
	_, err = approved.AddLine(uuid.New(), "SKU-001", "Test Item", "KG",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, approved.Approve())

	err = approved.Cancel("customer withdrew")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestSalesOrderLine_Discount(t *testing.T) {
	order, err := NewSalesOrder(uuid.New(), "SO-FX", uuid.New(), "Customer", "GBP", decimal.RequireFromString("1.25"))
	require.NoError(t, err)

	line, err := order.AddLine(uuid.New(), "SKU-001", "Item", "PC",
		decimal.NewFromInt(4), decimal.NewFromInt(50), decimal.NewFromInt(50))
	require.NoError(t, err)

	assert.Equal(t, "25", line.NetUnitPrice().String())
	assert.Equal(t, "100", order.TotalAmount.String())
	assert.Equal(t, "125", order.TotalAmountBase().String())
}
