package stock

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStockRepo keeps stock levels as values and hands out copies, so a
// failed SaveWithLock attempt leaves the store untouched the way a rolled
// back transaction would.
type fakeStockRepo struct {
	levels        map[string]*stock.StockLevel
	conflictsLeft int
	saveAttempts  int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: make(map[string]*stock.StockLevel)}
}

func levelKey(tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) string {
	bin := ""
	if binID != nil {
		bin = binID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", tenantID, warehouseID, bin, itemID)
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockLevel, error) {
	for _, level := range r.levels {
		if level.ID == id {
			copied := *level
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindByKey(_ context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*stock.StockLevel, error) {
	level, ok := r.levels[levelKey(tenantID, warehouseID, binID, itemID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *level
	return &copied, nil
}

func (r *fakeStockRepo) FindByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID, _ shared.Filter) ([]stock.StockLevel, error) {
	var matched []stock.StockLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.WarehouseID == warehouseID {
			matched = append(matched, *level)
		}
	}
	return matched, nil
}

func (r *fakeStockRepo) FindByItem(_ context.Context, tenantID, itemID uuid.UUID, _ shared.Filter) ([]stock.StockLevel, error) {
	var matched []stock.StockLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.ItemID == itemID {
			matched = append(matched, *level)
		}
	}
	return matched, nil
}

func (r *fakeStockRepo) GetOrCreate(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*stock.StockLevel, error) {
	if level, err := r.FindByKey(ctx, tenantID, warehouseID, binID, itemID); err == nil {
		return level, nil
	}
	return stock.NewStockLevel(tenantID, warehouseID, binID, itemID)
}

func (r *fakeStockRepo) Save(_ context.Context, level *stock.StockLevel) error {
	copied := *level
	// events are not columns; a reloaded row carries none
	copied.ClearDomainEvents()
	r.levels[levelKey(level.TenantID, level.WarehouseID, level.BinID, level.ItemID)] = &copied
	return nil
}

func (r *fakeStockRepo) SaveWithLock(ctx context.Context, level *stock.StockLevel) error {
	r.saveAttempts++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return shared.ErrConcurrencyConflict
	}
	return r.Save(ctx, level)
}

func (r *fakeStockRepo) SumQuantityByItem(_ context.Context, tenantID, itemID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.ItemID == itemID {
			total = total.Add(level.OnHandQuantity)
		}
	}
	return total, nil
}

func (r *fakeStockRepo) SumValueByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.WarehouseID == warehouseID {
			total = total.Add(level.TotalValue())
		}
	}
	return total, nil
}

func (r *fakeStockRepo) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return int64(len(r.levels)), nil
}

type fakeMovementRepo struct {
	movements []stock.Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *stock.Movement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Movement, error) {
	for i := range r.movements {
		if r.movements[i].ID == id {
			copied := r.movements[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepo) FindByRef(_ context.Context, refType stock.RefType, refID uuid.UUID) ([]stock.Movement, error) {
	var matched []stock.Movement
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID == refID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (r *fakeMovementRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]stock.Movement, error) {
	var matched []stock.Movement
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (r *fakeMovementRepo) SumLineQuantity(_ context.Context, refType stock.RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID == refID && m.RefLineID != nil && *m.RefLineID == refLineID {
			total = total.Add(m.Quantity)
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) SumBaseQuantity(_ context.Context, refType stock.RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID == refID && m.RefLineID != nil && *m.RefLineID == refLineID {
			total = total.Add(m.QuantityBase)
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func newLedgerTestService() (*LedgerService, *fakeStockRepo, *fakeMovementRepo) {
	stockRepo := newFakeStockRepo()
	movementRepo := &fakeMovementRepo{}
	scope := NewNoOpTransactionScope(stockRepo, movementRepo)
	return NewLedgerService(scope, stockRepo, movementRepo, zap.NewNop()), stockRepo, movementRepo
}

func receiveRequest(warehouseID, itemID uuid.UUID, qty, cost decimal.Decimal) ApplyDeltaRequest {
	return ApplyDeltaRequest{
		WarehouseID:  warehouseID,
		ItemID:       itemID,
		QuantityBase: qty,
		UnitCostBase: cost,
		RefType:      "PO",
		RefID:        uuid.New(),
		UnitCode:     "KG",
		Quantity:     qty,
	}
}

func TestLedgerService_ApplyDelta_FirstReceiptCreatesRow(t *testing.T) {
	service, stockRepo, movementRepo := newLedgerTestService()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	response, err := service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, err)
	assert.Equal(t, "RECEIVE", response.Type)

	level, err := stockRepo.FindByKey(context.Background(), tenantID, warehouseID, nil, itemID)
	require.NoError(t, err)
	assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, level.AvgUnitCost.Equal(decimal.NewFromInt(5)))
	assert.Len(t, movementRepo.movements, 1)
}

func TestLedgerService_ApplyDelta_WeightedAverageAcrossReceipts(t *testing.T) {
	service, stockRepo, _ := newLedgerTestService()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	_, err := service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, err)
	_, err = service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(7)))
	require.NoError(t, err)

	level, err := stockRepo.FindByKey(context.Background(), tenantID, warehouseID, nil, itemID)
	require.NoError(t, err)
	assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, level.AvgUnitCost.Equal(decimal.NewFromInt(6)))
}

func TestLedgerService_ApplyDelta_IssueBelowZeroRejected(t *testing.T) {
	service, stockRepo, movementRepo := newLedgerTestService()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	_, err := service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, err)

	issue := receiveRequest(warehouseID, itemID, decimal.NewFromInt(-11), decimal.Zero)
	issue.RefType = "SO"
	issue.Quantity = decimal.NewFromInt(11)
	_, err = service.ApplyDelta(context.Background(), tenantID, issue)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	// the row and the log are both unchanged
	level, err := stockRepo.FindByKey(context.Background(), tenantID, warehouseID, nil, itemID)
	require.NoError(t, err)
	assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(10)))
	assert.Len(t, movementRepo.movements, 1)
}

func TestLedgerService_ApplyDelta_ZeroDeltaRejected(t *testing.T) {
	service, _, _ := newLedgerTestService()

	_, err := service.ApplyDelta(context.Background(), uuid.New(),
		receiveRequest(uuid.New(), uuid.New(), decimal.Zero, decimal.Zero))
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
}

func TestLedgerService_ApplyDelta_RetriesLockConflict(t *testing.T) {
	service, stockRepo, movementRepo := newLedgerTestService()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	stockRepo.conflictsLeft = 2

	_, err := service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, err)
	assert.Equal(t, 3, stockRepo.saveAttempts)

	level, err := stockRepo.FindByKey(context.Background(), tenantID, warehouseID, nil, itemID)
	require.NoError(t, err)
	assert.True(t, level.OnHandQuantity.Equal(decimal.NewFromInt(10)))
	// retried attempts never reached the movement append
	assert.Len(t, movementRepo.movements, 1)
}

func TestLedgerService_ApplyDelta_ConflictOnEveryAttemptSurfaces(t *testing.T) {
	service, stockRepo, _ := newLedgerTestService()

	stockRepo.conflictsLeft = 5

	_, err := service.ApplyDelta(context.Background(), uuid.New(),
		receiveRequest(uuid.New(), uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(5)))
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 3, stockRepo.saveAttempts)
}

func TestLedgerService_GetOnHand_MissingRowReportsZero(t *testing.T) {
	service, _, _ := newLedgerTestService()

	response, err := service.GetOnHand(context.Background(), uuid.New(), uuid.New(), nil, uuid.New())
	require.NoError(t, err)
	assert.True(t, response.OnHandQuantity.IsZero())
	assert.True(t, response.AvgUnitCost.IsZero())
	assert.True(t, response.TotalValue.IsZero())
}

func TestLedgerService_MovementsByRef(t *testing.T) {
	service, _, _ := newLedgerTestService()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()
	refID := uuid.New()

	req := receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5))
	req.RefID = refID
	_, err := service.ApplyDelta(context.Background(), tenantID, req)
	require.NoError(t, err)

	movements, err := service.MovementsByRef(context.Background(), "PO", refID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "RECEIVE", movements[0].Type)
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestLedgerService_ApplyDelta_PublishesDomainEvents(t *testing.T) {
	service, _, _ := newLedgerTestService()
	publisher := &recordingPublisher{}
	service.SetEventPublisher(publisher)
	tenantID := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	_, err := service.ApplyDelta(context.Background(), tenantID,
		receiveRequest(warehouseID, itemID, decimal.NewFromInt(10), decimal.NewFromInt(5)))
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, stock.EventTypeStockReceived, publisher.events[0].EventType())
	assert.Equal(t, tenantID, publisher.events[0].TenantID())

	issue := receiveRequest(warehouseID, itemID, decimal.NewFromInt(-4), decimal.Zero)
	issue.RefType = "SO"
	issue.Quantity = decimal.NewFromInt(4)
	_, err = service.ApplyDelta(context.Background(), tenantID, issue)
	require.NoError(t, err)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, stock.EventTypeStockIssued, publisher.events[1].EventType())
}
