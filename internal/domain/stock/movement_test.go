package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovement(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	warehouseID := uuid.New()
	refID := uuid.New()
	lineID := uuid.New()

	m, err := NewMovement(tenantID, MovementTypeReceive, itemID, "TON",
		decimal.NewFromInt(2), decimal.NewFromInt(2000), decimal.RequireFromString("0.5"),
		warehouseID, nil, RefTypePurchaseOrder, refID, &lineID)
	require.NoError(t, err)

	assert.True(t, m.IsReceive())
	assert.False(t, m.IsIssue())
	assert.Equal(t, "1000", m.TotalCostBase().String())
	assert.False(t, m.OccurredAt.IsZero())
}

func TestNewMovement_Validation(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	warehouseID := uuid.New()
	refID := uuid.New()
	one := decimal.NewFromInt(1)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty tenant", func() error {
			_, err := NewMovement(uuid.Nil, MovementTypeReceive, itemID, "KG", one, one, one, warehouseID, nil, RefTypePurchaseOrder, refID, nil)
			return err
		}},
		{"unknown type", func() error {
			_, err := NewMovement(tenantID, MovementType("ADJUST"), itemID, "KG", one, one, one, warehouseID, nil, RefTypePurchaseOrder, refID, nil)
			return err
		}},
		{"empty unit", func() error {
			_, err := NewMovement(tenantID, MovementTypeIssue, itemID, "", one, one, one, warehouseID, nil, RefTypeSalesOrder, refID, nil)
			return err
		}},
		{"zero quantity", func() error {
			_, err := NewMovement(tenantID, MovementTypeIssue, itemID, "KG", decimal.Zero, one, one, warehouseID, nil, RefTypeSalesOrder, refID, nil)
			return err
		}},
		{"negative base quantity", func() error {
			_, err := NewMovement(tenantID, MovementTypeIssue, itemID, "KG", one, decimal.NewFromInt(-1), one, warehouseID, nil, RefTypeSalesOrder, refID, nil)
			return err
		}},
		{"negative cost", func() error {
			_, err := NewMovement(tenantID, MovementTypeReceive, itemID, "KG", one, one, decimal.NewFromInt(-1), warehouseID, nil, RefTypePurchaseOrder, refID, nil)
			return err
		}},
		{"empty warehouse", func() error {
			_, err := NewMovement(tenantID, MovementTypeReceive, itemID, "KG", one, one, one, uuid.Nil, nil, RefTypePurchaseOrder, refID, nil)
			return err
		}},
		{"unknown ref type", func() error {
			_, err := NewMovement(tenantID, MovementTypeReceive, itemID, "KG", one, one, one, warehouseID, nil, RefType("WO"), refID, nil)
			return err
		}},
		{"empty ref", func() error {
			_, err := NewMovement(tenantID, MovementTypeReceive, itemID, "KG", one, one, one, warehouseID, nil, RefTypePurchaseOrder, uuid.Nil, nil)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.fn())
		})
	}
}
