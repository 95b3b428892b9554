package stock

import (
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Event types emitted by the stock ledger
const (
	EventTypeStockReceived = "stock.received"
	EventTypeStockIssued   = "stock.issued"
)

// StockReceivedEvent is emitted when a positive delta lands on a stock level
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    string `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	NewQuantity string `json:"new_quantity"`
	NewAvgCost  string `json:"new_avg_cost"`
}

// NewStockReceivedEvent creates a StockReceivedEvent from the pre-mutation row
func NewStockReceivedEvent(level *StockLevel, qty, unitCost decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "StockLevel", level.ID, level.TenantID),
		WarehouseID:     level.WarehouseID.String(),
		ItemID:          level.ItemID.String(),
		Quantity:        qty.String(),
		UnitCost:        unitCost.String(),
		NewQuantity:     level.OnHandQuantity.Add(qty).String(),
		NewAvgCost:      level.AvgUnitCost.String(),
	}
}

// StockIssuedEvent is emitted when a negative delta lands on a stock level
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    string `json:"quantity"`
	NewQuantity string `json:"new_quantity"`
}

// NewStockIssuedEvent creates a StockIssuedEvent from the pre-mutation row
func NewStockIssuedEvent(level *StockLevel, qty decimal.Decimal) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, "StockLevel", level.ID, level.TenantID),
		WarehouseID:     level.WarehouseID.String(),
		ItemID:          level.ItemID.String(),
		Quantity:        qty.String(),
		NewQuantity:     level.OnHandQuantity.Sub(qty).String(),
	}
}
