package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// maxLockRetries is how many times a read-modify-write cycle is retried
// after an optimistic lock conflict before the error is surfaced.
const maxLockRetries = 3

// LedgerService posts deltas to the stock ledger and answers on-hand and
// movement queries. Every posting writes the stock level row and the
// movement record in one transaction.
type LedgerService struct {
	scope          TransactionScope
	stockRepo      stock.StockLevelRepository
	movementRepo   stock.MovementRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope, stockRepo stock.StockLevelRepository, movementRepo stock.MovementRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for ledger domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ApplyDelta posts a signed base-unit delta to the ledger and appends the
// matching movement record. On an optimistic lock conflict the whole
// read-modify-write transaction is retried, so two concurrent issues against
// the same row serialize instead of both reading the same version.
func (s *LedgerService) ApplyDelta(ctx context.Context, tenantID uuid.UUID, req ApplyDeltaRequest) (*MovementResponse, error) {
	if req.QuantityBase.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock delta cannot be zero")
	}

	movementType := stock.MovementTypeReceive
	if req.QuantityBase.IsNegative() {
		movementType = stock.MovementTypeIssue
	}

	var response *MovementResponse
	var level *stock.StockLevel

	err := s.withLockRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			level, err = repos.StockLevels().GetOrCreate(ctx, tenantID, req.WarehouseID, req.BinID, req.ItemID)
			if err != nil {
				return fmt.Errorf("loading stock level: %w", err)
			}

			if err := level.ApplyDelta(req.QuantityBase, req.UnitCostBase); err != nil {
				return err
			}
			if err := repos.StockLevels().SaveWithLock(ctx, level); err != nil {
				return err
			}

			movement, err := stock.NewMovement(tenantID, movementType, req.ItemID, req.UnitCode,
				req.Quantity.Abs(), req.QuantityBase.Abs(), req.UnitCostBase,
				req.WarehouseID, req.BinID, stock.RefType(req.RefType), req.RefID, req.RefLineID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return fmt.Errorf("appending movement: %w", err)
			}

			response = NewMovementResponse(movement)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, level)
	s.logger.Info("stock delta applied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("item_id", req.ItemID.String()),
		zap.String("delta_base", req.QuantityBase.String()),
		zap.String("type", movementType.String()))

	return response, nil
}

// GetOnHand returns the on-hand state for one location-item key.
// A key with no row yet reports zero quantity and cost.
func (s *LedgerService) GetOnHand(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*OnHandResponse, error) {
	level, err := s.stockRepo.FindByKey(ctx, tenantID, warehouseID, binID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &OnHandResponse{
				WarehouseID:    warehouseID,
				BinID:          binID,
				ItemID:         itemID,
				OnHandQuantity: decimal.Zero,
				AvgUnitCost:    decimal.Zero,
				TotalValue:     decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return NewOnHandResponse(level), nil
}

// ListByWarehouse lists the stock levels in a warehouse
func (s *LedgerService) ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]OnHandResponse, error) {
	levels, err := s.stockRepo.FindByWarehouse(ctx, tenantID, warehouseID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OnHandResponse, len(levels))
	for i := range levels {
		responses[i] = *NewOnHandResponse(&levels[i])
	}
	return responses, nil
}

// ListByItem lists the stock levels of an item across locations
func (s *LedgerService) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]OnHandResponse, error) {
	levels, err := s.stockRepo.FindByItem(ctx, tenantID, itemID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OnHandResponse, len(levels))
	for i := range levels {
		responses[i] = *NewOnHandResponse(&levels[i])
	}
	return responses, nil
}

// TotalQuantityByItem sums the on-hand quantity of an item across locations
func (s *LedgerService) TotalQuantityByItem(ctx context.Context, tenantID, itemID uuid.UUID) (decimal.Decimal, error) {
	return s.stockRepo.SumQuantityByItem(ctx, tenantID, itemID)
}

// WarehouseValue sums the inventory value held in a warehouse
func (s *LedgerService) WarehouseValue(ctx context.Context, tenantID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	return s.stockRepo.SumValueByWarehouse(ctx, tenantID, warehouseID)
}

// ListMovements lists movement history for a tenant
func (s *LedgerService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	movements, err := s.movementRepo.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *NewMovementResponse(&movements[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MovementsByRef lists the movements recorded for one source document
func (s *LedgerService) MovementsByRef(ctx context.Context, refType string, refID uuid.UUID) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByRef(ctx, stock.RefType(refType), refID)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *NewMovementResponse(&movements[i])
	}
	return responses, nil
}

// withLockRetry retries fn on optimistic lock conflicts. Domain rejections
// (insufficient stock, bad quantity) are surfaced immediately; only version
// conflicts are worth retrying because a rerun re-reads fresh state.
func (s *LedgerService) withLockRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxLockRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Debug("optimistic lock conflict, retrying",
			zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return err
}

func (s *LedgerService) publishDomainEvents(ctx context.Context, level *stock.StockLevel) {
	if s.eventPublisher == nil || level == nil {
		return
	}
	events := level.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing stock level events failed",
			zap.String("stock_level_id", level.ID.String()),
			zap.Int("events", len(events)),
			zap.Error(err))
	}
	level.ClearDomainEvents()
}
