package stock

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockLevel(t *testing.T) *StockLevel {
	t.Helper()
	level, err := NewStockLevel(uuid.New(), uuid.New(), nil, uuid.New())
	require.NoError(t, err)
	return level
}

func TestNewStockLevel(t *testing.T) {
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()
	binID := uuid.New()

	level, err := NewStockLevel(tenantID, warehouseID, &binID, itemID)
	require.NoError(t, err)
	assert.True(t, level.OnHandQuantity.IsZero())
	assert.True(t, level.AvgUnitCost.IsZero())
	assert.Equal(t, 1, level.Version)
	assert.True(t, level.SameKey(warehouseID, &binID, itemID))
	assert.False(t, level.SameKey(warehouseID, nil, itemID))
}

func TestNewStockLevel_Validation(t *testing.T) {
	tenantID := uuid.New()
	nilBin := uuid.Nil

	_, err := NewStockLevel(tenantID, uuid.Nil, nil, uuid.New())
	require.Error(t, err)

	_, err = NewStockLevel(tenantID, uuid.New(), nil, uuid.Nil)
	require.Error(t, err)

	_, err = NewStockLevel(tenantID, uuid.New(), &nilBin, uuid.New())
	require.Error(t, err)
}

func TestStockLevel_ApplyDelta_FirstReceipt(t *testing.T) {
	level := createTestStockLevel(t)

	err := level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)

	assert.Equal(t, "10", level.OnHandQuantity.String())
	assert.Equal(t, "5", level.AvgUnitCost.String())
	assert.Equal(t, 2, level.Version)

	events := level.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockReceived, events[0].EventType())
}

func TestStockLevel_ApplyDelta_WeightedAverage(t *testing.T) {
	level := createTestStockLevel(t)

	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(7)))

	// (10*5 + 10*7) / 20 = 6
	assert.Equal(t, "20", level.OnHandQuantity.String())
	assert.Equal(t, "6", level.AvgUnitCost.String())
}

func TestStockLevel_ApplyDelta_IssueKeepsCost(t *testing.T) {
	level := createTestStockLevel(t)
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(20), decimal.NewFromInt(6)))

	err := level.ApplyDelta(decimal.NewFromInt(-5), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "15", level.OnHandQuantity.String())
	assert.Equal(t, "6", level.AvgUnitCost.String(), "issues never revise the average cost")

	events := level.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeStockIssued, events[1].EventType())
}

func TestStockLevel_ApplyDelta_IssueToZero(t *testing.T) {
	level := createTestStockLevel(t)
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(4)))

	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(-10), decimal.Zero))
	assert.True(t, level.OnHandQuantity.IsZero())
	assert.Equal(t, "4", level.AvgUnitCost.String())

	// Receiving into a zero-quantity row resets the cost to the new receipt.
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(5), decimal.NewFromInt(9)))
	assert.Equal(t, "9", level.AvgUnitCost.String())
}

func TestStockLevel_ApplyDelta_InsufficientStock(t *testing.T) {
	level := createTestStockLevel(t)
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(5)))

	versionBefore := level.Version
	err := level.ApplyDelta(decimal.NewFromInt(-11), decimal.Zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	// The row must be left untouched after a rejected issue.
	assert.Equal(t, "10", level.OnHandQuantity.String())
	assert.Equal(t, "5", level.AvgUnitCost.String())
	assert.Equal(t, versionBefore, level.Version)
}

func TestStockLevel_ApplyDelta_ZeroDelta(t *testing.T) {
	level := createTestStockLevel(t)

	err := level.ApplyDelta(decimal.Zero, decimal.NewFromInt(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
}

func TestStockLevel_ApplyDelta_NegativeCost(t *testing.T) {
	level := createTestStockLevel(t)

	err := level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestStockLevel_ApplyDelta_FractionalAverage(t *testing.T) {
	level := createTestStockLevel(t)

	// 2000 KG received for a total cost of 1000 gives 0.5 per KG.
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(2000), decimal.RequireFromString("0.5")))
	assert.Equal(t, "0.5", level.AvgUnitCost.String())

	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(-500), decimal.Zero))
	assert.Equal(t, "1500", level.OnHandQuantity.String())
	assert.Equal(t, "0.5", level.AvgUnitCost.String())
}

func TestStockLevel_CanIssue(t *testing.T) {
	level := createTestStockLevel(t)
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10), decimal.NewFromInt(5)))

	assert.True(t, level.CanIssue(decimal.NewFromInt(10)))
	assert.False(t, level.CanIssue(decimal.NewFromInt(11)))
}

func TestStockLevel_TotalValue(t *testing.T) {
	level := createTestStockLevel(t)
	require.NoError(t, level.ApplyDelta(decimal.NewFromInt(20), decimal.NewFromInt(6)))

	assert.Equal(t, "120", level.TotalValue().String())
}
