package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// costScale is the number of decimal places the running average cost keeps,
// matching the cost column precision.
const costScale = 4

// StockLevel holds the on-hand quantity and weighted-average unit cost for
// one (warehouse, bin, item) key. It is the aggregate root for ledger
// operations; quantity and cost may only be mutated through ApplyDelta.
//
// A nil BinID addresses un-binned stock at the warehouse level. Rows are
// created lazily on the first receipt and never deleted by the ledger.
type StockLevel struct {
	shared.TenantAggregateRoot
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:2"`
	BinID          *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_level_key,priority:3"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:4"`
	OnHandQuantity decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	AvgUnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates an empty stock level row for a location-item key
func NewStockLevel(tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*StockLevel, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if binID != nil && *binID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BIN", "Bin ID cannot be the nil UUID; omit it for un-binned stock")
	}

	return &StockLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		BinID:               binID,
		ItemID:              itemID,
		OnHandQuantity:      decimal.Zero,
		AvgUnitCost:         decimal.Zero,
	}, nil
}

// ApplyDelta applies a signed base-unit quantity delta to the row.
//
// Positive deltas are receipts: the average cost is recomputed as
// (oldQty*oldCost + delta*unitCost) / newQty, or set to unitCost when the
// prior quantity was zero. Negative deltas are issues: the quantity drops
// and the cost basis is left untouched (issues never revise a weighted
// average). A delta that would drive the quantity negative is rejected with
// INSUFFICIENT_STOCK and the row is left unchanged.
func (s *StockLevel) ApplyDelta(deltaQtyBase, unitCostBase decimal.Decimal) error {
	if deltaQtyBase.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock delta cannot be zero")
	}
	if unitCostBase.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	newQty := s.OnHandQuantity.Add(deltaQtyBase)
	if newQty.IsNegative() {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock for item %s at warehouse %s: on hand %s, requested %s",
			s.ItemID, s.WarehouseID, s.OnHandQuantity, deltaQtyBase.Neg())
	}

	if deltaQtyBase.IsPositive() {
		if s.OnHandQuantity.IsZero() {
			s.AvgUnitCost = unitCostBase.Round(costScale)
		} else {
			totalValue := s.OnHandQuantity.Mul(s.AvgUnitCost).Add(deltaQtyBase.Mul(unitCostBase))
			s.AvgUnitCost = totalValue.DivRound(newQty, costScale)
		}
		s.AddDomainEvent(NewStockReceivedEvent(s, deltaQtyBase, unitCostBase))
	} else {
		s.AddDomainEvent(NewStockIssuedEvent(s, deltaQtyBase.Neg()))
	}

	s.OnHandQuantity = newQty
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// CanIssue returns true if the row holds at least the requested quantity
func (s *StockLevel) CanIssue(qtyBase decimal.Decimal) bool {
	return s.OnHandQuantity.GreaterThanOrEqual(qtyBase)
}

// TotalValue returns the inventory value of the row (quantity * average cost)
func (s *StockLevel) TotalValue() decimal.Decimal {
	return s.OnHandQuantity.Mul(s.AvgUnitCost)
}

// SameKey returns true if the row addresses the given location-item key
func (s *StockLevel) SameKey(warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) bool {
	if s.WarehouseID != warehouseID || s.ItemID != itemID {
		return false
	}
	if s.BinID == nil || binID == nil {
		return s.BinID == nil && binID == nil
	}
	return *s.BinID == *binID
}
