package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/application/uom"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/shared/valueobject"
	"github.com/stockflow/backend/internal/domain/stock"
	domainuom "github.com/stockflow/backend/internal/domain/uom"
	"go.uber.org/zap"
)

// maxLockRetries is how many times a fulfillment transaction is retried
// after an optimistic lock conflict before the error is surfaced.
const maxLockRetries = 3

// costScale is the precision of the derived per-base-unit cost
const costScale = 4

// Config holds the engine's behavioral switches
type Config struct {
	// AutoClose closes an order automatically when its last line is
	// fulfilled. When false the order stays in its partial status until
	// ClosePurchaseOrder / CloseSalesOrder is called explicitly.
	AutoClose bool
}

// Engine orchestrates order fulfillment: it verifies the order state,
// recomputes the already-fulfilled quantity from the movement log, converts
// the line unit to the item base unit, posts the ledger delta and appends
// the movement, all within one transaction per line.
type Engine struct {
	scope       TransactionScope
	conversions *uom.ConversionService
	itemRepo    catalog.ItemRepository
	cfg         Config
	logger      *zap.Logger
}

// NewEngine creates a new fulfillment Engine
func NewEngine(scope TransactionScope, conversions *uom.ConversionService, itemRepo catalog.ItemRepository, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		scope:       scope,
		conversions: conversions,
		itemRepo:    itemRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// ReceiveLine receives a quantity against one purchase order line: the
// destination stock level gains the base-unit quantity at the line's
// discounted base-currency cost and a RECEIVE movement is appended.
func (e *Engine) ReceiveLine(ctx context.Context, tenantID uuid.UUID, req FulfillLineRequest) (*LineResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Receive quantity must be positive, got %s", req.Quantity)
	}

	graph, err := e.conversions.GraphForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var result *LineResult
	err = e.withLockRetry(ctx, func() error {
		return e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			po, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, req.OrderID)
			if err != nil {
				return err
			}
			if po.IsDraft() {
				return shared.NewDomainErrorf("ORDER_NOT_APPROVED", "Order %s must be approved before receiving", po.OrderNumber)
			}
			if !po.Status.CanFulfill() {
				return shared.NewDomainErrorf("INVALID_STATE", "Cannot receive goods for order in %s status", po.Status)
			}

			line := po.GetLine(req.LineID)
			if line == nil {
				return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
			}

			// The movement log, not the cached line counter, decides how
			// much has already been fulfilled. After a partial batch failure
			// the log is the state that actually committed.
			fulfilled, err := repos.Movements().SumLineQuantity(ctx, stock.RefTypePurchaseOrder, po.ID, line.ID)
			if err != nil {
				return fmt.Errorf("summing fulfilled quantity: %w", err)
			}
			remaining := line.OrderedQuantity.Sub(fulfilled)
			if req.Quantity.GreaterThan(remaining) {
				return shared.NewDomainErrorf("OVER_FULFILL",
					"Cannot receive %s %s for item %s, only %s remaining",
					req.Quantity, line.UnitCode, line.ItemSKU, remaining)
			}

			item, err := e.itemRepo.FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}

			qtyBase, unitCostBase, err := lineCosting(graph, line.UnitCode, item.BaseUnitCode, po.Currency, req.Quantity, line.NetUnitPrice(), po.FxToBase)
			if err != nil {
				return err
			}

			warehouseID, err := resolveWarehouse(req.WarehouseID, po.WarehouseID)
			if err != nil {
				return err
			}

			level, err := repos.StockLevels().GetOrCreate(ctx, tenantID, warehouseID, req.BinID, line.ItemID)
			if err != nil {
				return fmt.Errorf("loading stock level: %w", err)
			}
			if err := level.ApplyDelta(qtyBase, unitCostBase); err != nil {
				return err
			}
			if err := repos.StockLevels().SaveWithLock(ctx, level); err != nil {
				return err
			}

			movement, err := stock.NewMovement(tenantID, stock.MovementTypeReceive, line.ItemID, line.UnitCode,
				req.Quantity, qtyBase, unitCostBase, warehouseID, req.BinID,
				stock.RefTypePurchaseOrder, po.ID, &line.ID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return fmt.Errorf("appending movement: %w", err)
			}

			if err := po.ApplyFulfillment(line.ID, req.Quantity); err != nil {
				return err
			}
			if e.cfg.AutoClose && po.IsFullyFulfilled() {
				if err := po.Close(); err != nil {
					return err
				}
			}
			if err := repos.PurchaseOrders().SaveWithLock(ctx, po); err != nil {
				return err
			}

			movementID := movement.ID
			result = &LineResult{
				LineID:       line.ID,
				ItemID:       line.ItemID,
				Quantity:     req.Quantity,
				QuantityBase: qtyBase,
				UnitCostBase: unitCostBase,
				MovementID:   &movementID,
				Fulfilled:    line.Fulfilled,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("purchase order line received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("line_id", req.LineID.String()),
		zap.String("quantity", req.Quantity.String()))

	return result, nil
}

// ShipLine ships a quantity against one sales order line. The selected bin
// must hold the full base-unit quantity before the delta is posted; a short
// bin fails the line and changes nothing.
func (e *Engine) ShipLine(ctx context.Context, tenantID uuid.UUID, req FulfillLineRequest) (*LineResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Ship quantity must be positive, got %s", req.Quantity)
	}

	graph, err := e.conversions.GraphForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var result *LineResult
	err = e.withLockRetry(ctx, func() error {
		return e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, req.OrderID)
			if err != nil {
				return err
			}
			if so.IsDraft() {
				return shared.NewDomainErrorf("ORDER_NOT_APPROVED", "Order %s must be approved before shipping", so.OrderNumber)
			}
			if !so.Status.CanFulfill() {
				return shared.NewDomainErrorf("INVALID_STATE", "Cannot ship goods for order in %s status", so.Status)
			}

			line := so.GetLine(req.LineID)
			if line == nil {
				return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
			}

			fulfilled, err := repos.Movements().SumLineQuantity(ctx, stock.RefTypeSalesOrder, so.ID, line.ID)
			if err != nil {
				return fmt.Errorf("summing fulfilled quantity: %w", err)
			}
			remaining := line.OrderedQuantity.Sub(fulfilled)
			if req.Quantity.GreaterThan(remaining) {
				return shared.NewDomainErrorf("OVER_FULFILL",
					"Cannot ship %s %s for item %s, only %s remaining",
					req.Quantity, line.UnitCode, line.ItemSKU, remaining)
			}

			item, err := e.itemRepo.FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}

			qtyBase, unitCostBase, err := lineCosting(graph, line.UnitCode, item.BaseUnitCode, so.Currency, req.Quantity, line.NetUnitPrice(), so.FxToBase)
			if err != nil {
				return err
			}

			warehouseID, err := resolveWarehouse(req.WarehouseID, so.WarehouseID)
			if err != nil {
				return err
			}

			// Fail closed: the selected location must already hold the full
			// quantity. A missing row is an empty location, not an error in
			// the lookup.
			level, err := repos.StockLevels().FindByKey(ctx, tenantID, warehouseID, req.BinID, line.ItemID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return insufficientAtLocation(line, req.BinID, decimal.Zero, qtyBase)
				}
				return err
			}
			if !level.CanIssue(qtyBase) {
				return insufficientAtLocation(line, req.BinID, level.OnHandQuantity, qtyBase)
			}

			if err := level.ApplyDelta(qtyBase.Neg(), decimal.Zero); err != nil {
				return err
			}
			if err := repos.StockLevels().SaveWithLock(ctx, level); err != nil {
				return err
			}

			movement, err := stock.NewMovement(tenantID, stock.MovementTypeIssue, line.ItemID, line.UnitCode,
				req.Quantity, qtyBase, unitCostBase, warehouseID, req.BinID,
				stock.RefTypeSalesOrder, so.ID, &line.ID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return fmt.Errorf("appending movement: %w", err)
			}

			if err := so.ApplyFulfillment(line.ID, req.Quantity); err != nil {
				return err
			}
			if e.cfg.AutoClose && so.IsFullyFulfilled() {
				if err := so.Close(); err != nil {
					return err
				}
			}
			if err := repos.SalesOrders().SaveWithLock(ctx, so); err != nil {
				return err
			}

			movementID := movement.ID
			result = &LineResult{
				LineID:       line.ID,
				ItemID:       line.ItemID,
				Quantity:     req.Quantity,
				QuantityBase: qtyBase,
				UnitCostBase: unitCostBase,
				MovementID:   &movementID,
				Fulfilled:    line.Fulfilled,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("sales order line shipped",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("line_id", req.LineID.String()),
		zap.String("quantity", req.Quantity.String()))

	return result, nil
}

// ReceiveAll receives the full remaining quantity of every outstanding line
// of a purchase order. Lines run independently; a failed line is reported in
// the batch result and never aborts the rest.
func (e *Engine) ReceiveAll(ctx context.Context, tenantID uuid.UUID, req FulfillAllRequest) (*BatchResult, error) {
	type pending struct {
		lineID    uuid.UUID
		itemID    uuid.UUID
		remaining decimal.Decimal
	}

	var lines []pending
	err := e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		for _, line := range po.OutstandingLines() {
			lines = append(lines, pending{lineID: line.ID, itemID: line.ItemID, remaining: line.RemainingQuantity()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{OrderID: req.OrderID, Results: make([]LineResult, 0, len(lines))}
	for _, p := range lines {
		result, err := e.ReceiveLine(ctx, tenantID, FulfillLineRequest{
			OrderID:     req.OrderID,
			LineID:      p.lineID,
			Quantity:    p.remaining,
			WarehouseID: req.WarehouseID,
			BinID:       req.BinID,
		})
		if err != nil {
			batch.Failed++
			batch.Results = append(batch.Results, LineResult{
				LineID:   p.lineID,
				ItemID:   p.itemID,
				Quantity: p.remaining,
				Error:    newLineError(err),
			})
			continue
		}
		batch.Succeeded++
		batch.Results = append(batch.Results, *result)
	}

	e.fillBatchStatus(ctx, tenantID, req.OrderID, batch, true)
	return batch, nil
}

// ShipAll ships the full remaining quantity of every outstanding line of a
// sales order. Lines run independently; a short bin fails its own line only.
func (e *Engine) ShipAll(ctx context.Context, tenantID uuid.UUID, req FulfillAllRequest) (*BatchResult, error) {
	type pending struct {
		lineID    uuid.UUID
		itemID    uuid.UUID
		remaining decimal.Decimal
	}

	var lines []pending
	err := e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		for _, line := range so.OutstandingLines() {
			lines = append(lines, pending{lineID: line.ID, itemID: line.ItemID, remaining: line.RemainingQuantity()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{OrderID: req.OrderID, Results: make([]LineResult, 0, len(lines))}
	for _, p := range lines {
		result, err := e.ShipLine(ctx, tenantID, FulfillLineRequest{
			OrderID:     req.OrderID,
			LineID:      p.lineID,
			Quantity:    p.remaining,
			WarehouseID: req.WarehouseID,
			BinID:       req.BinID,
		})
		if err != nil {
			batch.Failed++
			batch.Results = append(batch.Results, LineResult{
				LineID:   p.lineID,
				ItemID:   p.itemID,
				Quantity: p.remaining,
				Error:    newLineError(err),
			})
			continue
		}
		batch.Succeeded++
		batch.Results = append(batch.Results, *result)
	}

	e.fillBatchStatus(ctx, tenantID, req.OrderID, batch, false)
	return batch, nil
}

// ClosePurchaseOrder explicitly closes a fully received purchase order.
// Needed when AutoClose is off.
func (e *Engine) ClosePurchaseOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return e.withLockRetry(ctx, func() error {
		return e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			po, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, orderID)
			if err != nil {
				return err
			}
			if err := po.Close(); err != nil {
				return err
			}
			return repos.PurchaseOrders().SaveWithLock(ctx, po)
		})
	})
}

// CloseSalesOrder explicitly closes a fully shipped sales order
func (e *Engine) CloseSalesOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return e.withLockRetry(ctx, func() error {
		return e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, orderID)
			if err != nil {
				return err
			}
			if err := so.Close(); err != nil {
				return err
			}
			return repos.SalesOrders().SaveWithLock(ctx, so)
		})
	})
}

// fillBatchStatus records the order status after a batch for the response.
// The batch itself already committed line by line, so a failed status read
// only leaves OrderStatus empty; it is logged, not surfaced.
func (e *Engine) fillBatchStatus(ctx context.Context, tenantID, orderID uuid.UUID, batch *BatchResult, purchase bool) {
	err := e.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if purchase {
			po, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, orderID)
			if err != nil {
				return err
			}
			batch.OrderStatus = po.Status.String()
			return nil
		}
		so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		batch.OrderStatus = so.Status.String()
		return nil
	})
	if err != nil {
		e.logger.Warn("reading order status after batch failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
}

// withLockRetry retries fn on optimistic lock conflicts. Only version
// conflicts rerun; domain rejections surface immediately.
func (e *Engine) withLockRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxLockRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		e.logger.Debug("optimistic lock conflict, retrying",
			zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return err
}

// lineCosting converts a line-unit quantity to the item base unit and
// derives the per-base-unit cost in the base currency: the discounted line
// price is brought to base with the order FX rate, extended over the quantity
// and spread across the base-unit quantity.
func lineCosting(graph *domainuom.ConversionGraph, lineUnit, baseUnit, currency string, qty, netUnitPrice, fxToBase decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	qtyBase, err := graph.Convert(qty, lineUnit, baseUnit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if qtyBase.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, shared.NewDomainErrorf("INVALID_QUANTITY",
			"Conversion from %s to %s produced a non-positive quantity", lineUnit, baseUnit)
	}

	price, err := valueobject.NewMoney(netUnitPrice, currency)
	if err != nil {
		return decimal.Zero, decimal.Zero, shared.NewDomainErrorf("INVALID_CURRENCY",
			"Order currency %q is not usable for costing: %s", currency, err)
	}
	priceBase, err := price.ToBase(fxToBase)
	if err != nil {
		return decimal.Zero, decimal.Zero, shared.NewDomainErrorf("INVALID_FX_RATE",
			"FX rate %s is not usable for costing: %s", fxToBase, err)
	}
	unitCostBase, err := priceBase.Mul(qty).Div(qtyBase)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return qtyBase, unitCostBase.Round(costScale).Amount(), nil
}

// resolveWarehouse picks the explicit warehouse or the order default
func resolveWarehouse(requested, orderDefault *uuid.UUID) (uuid.UUID, error) {
	if requested != nil && *requested != uuid.Nil {
		return *requested, nil
	}
	if orderDefault != nil && *orderDefault != uuid.Nil {
		return *orderDefault, nil
	}
	return uuid.Nil, shared.NewDomainError("NO_WAREHOUSE", "No warehouse selected and the order has no default warehouse")
}

// insufficientAtLocation builds the fail-closed shortage error. Bin-level
// shortages get their own code so callers can distinguish a short bin from
// a short warehouse.
func insufficientAtLocation(line *order.SalesOrderLine, binID *uuid.UUID, onHand, requested decimal.Decimal) error {
	if binID != nil {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK_AT_BIN",
			"Insufficient stock in bin %s for item %s: on hand %s, requested %s",
			binID, line.ItemSKU, onHand, requested)
	}
	return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
		"Insufficient stock for item %s: on hand %s, requested %s",
		line.ItemSKU, onHand, requested)
}
