package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/stock"
)

// OnHandResponse represents the on-hand state of one location-item key
type OnHandResponse struct {
	ID             uuid.UUID       `json:"id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	BinID          *uuid.UUID      `json:"bin_id,omitempty"`
	ItemID         uuid.UUID       `json:"item_id"`
	OnHandQuantity decimal.Decimal `json:"on_hand_quantity"`
	AvgUnitCost    decimal.Decimal `json:"avg_unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// NewOnHandResponse maps a stock level to its response representation
func NewOnHandResponse(level *stock.StockLevel) *OnHandResponse {
	return &OnHandResponse{
		ID:             level.ID,
		WarehouseID:    level.WarehouseID,
		BinID:          level.BinID,
		ItemID:         level.ItemID,
		OnHandQuantity: level.OnHandQuantity,
		AvgUnitCost:    level.AvgUnitCost,
		TotalValue:     level.TotalValue(),
		UpdatedAt:      level.UpdatedAt,
		Version:        level.Version,
	}
}

// ApplyDeltaRequest represents a direct ledger adjustment. Positive
// quantities receive stock, negative quantities issue it.
type ApplyDeltaRequest struct {
	WarehouseID  uuid.UUID       `json:"warehouse_id" binding:"required"`
	BinID        *uuid.UUID      `json:"bin_id"`
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	QuantityBase decimal.Decimal `json:"quantity_base" binding:"required"`
	UnitCostBase decimal.Decimal `json:"unit_cost_base"`
	RefType      string          `json:"ref_type" binding:"required,oneof=PO SO"`
	RefID        uuid.UUID       `json:"ref_id" binding:"required"`
	RefLineID    *uuid.UUID      `json:"ref_line_id"`
	UnitCode     string          `json:"unit_code" binding:"required,max=20"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"` // in the line unit
}

// MovementResponse represents a movement record in API responses
type MovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	ItemID       uuid.UUID       `json:"item_id"`
	UnitCode     string          `json:"unit_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityBase decimal.Decimal `json:"quantity_base"`
	UnitCostBase decimal.Decimal `json:"unit_cost_base"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	BinID        *uuid.UUID      `json:"bin_id,omitempty"`
	RefType      string          `json:"ref_type"`
	RefID        uuid.UUID       `json:"ref_id"`
	RefLineID    *uuid.UUID      `json:"ref_line_id,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// NewMovementResponse maps a movement to its response representation
func NewMovementResponse(m *stock.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		Type:         m.Type.String(),
		ItemID:       m.ItemID,
		UnitCode:     m.UnitCode,
		Quantity:     m.Quantity,
		QuantityBase: m.QuantityBase,
		UnitCostBase: m.UnitCostBase,
		WarehouseID:  m.WarehouseID,
		BinID:        m.BinID,
		RefType:      m.RefType.String(),
		RefID:        m.RefID,
		RefLineID:    m.RefLineID,
		OccurredAt:   m.OccurredAt,
	}
}
