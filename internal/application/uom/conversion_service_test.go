package uom

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/uom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUnitRepository is a mock implementation of UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*uom.UnitOfMeasure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uom.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*uom.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uom.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]uom.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]uom.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *uom.UnitOfMeasure) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUnitRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEdgeRepository is a mock implementation of ConversionEdgeRepository
type MockEdgeRepository struct {
	mock.Mock
}

func (m *MockEdgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*uom.ConversionEdge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uom.ConversionEdge), args.Error(1)
}

func (m *MockEdgeRepository) FindByPair(ctx context.Context, scopeID *uuid.UUID, fromCode, toCode string) (*uom.ConversionEdge, error) {
	args := m.Called(ctx, scopeID, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uom.ConversionEdge), args.Error(1)
}

func (m *MockEdgeRepository) FindGlobal(ctx context.Context) ([]uom.ConversionEdge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uom.ConversionEdge), args.Error(1)
}

func (m *MockEdgeRepository) FindScoped(ctx context.Context, scopeID uuid.UUID) ([]uom.ConversionEdge, error) {
	args := m.Called(ctx, scopeID)
	return args.Get(0).([]uom.ConversionEdge), args.Error(1)
}

func (m *MockEdgeRepository) Save(ctx context.Context, edge *uom.ConversionEdge) error {
	args := m.Called(ctx, edge)
	return args.Error(0)
}

func (m *MockEdgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// trackingCache is an in-memory GraphCache that counts invalidations
type trackingCache struct {
	graphs         map[uuid.UUID]*uom.ConversionGraph
	invalidated    []uuid.UUID
	invalidatedAll int
}

func newTrackingCache() *trackingCache {
	return &trackingCache{graphs: make(map[uuid.UUID]*uom.ConversionGraph)}
}

func (c *trackingCache) Get(tenantID uuid.UUID) (*uom.ConversionGraph, bool) {
	g, ok := c.graphs[tenantID]
	return g, ok
}

func (c *trackingCache) Set(tenantID uuid.UUID, graph *uom.ConversionGraph) {
	c.graphs[tenantID] = graph
}

func (c *trackingCache) Invalidate(_ context.Context, tenantID uuid.UUID) {
	delete(c.graphs, tenantID)
	c.invalidated = append(c.invalidated, tenantID)
}

func (c *trackingCache) InvalidateAll(_ context.Context) {
	c.graphs = make(map[uuid.UUID]*uom.ConversionGraph)
	c.invalidatedAll++
}

func mustEdge(t *testing.T, scopeID *uuid.UUID, from, to string, factor decimal.Decimal) uom.ConversionEdge {
	t.Helper()
	edge, err := uom.NewConversionEdge(scopeID, from, to, factor)
	require.NoError(t, err)
	return *edge
}

func TestConversionService_CreateUnit(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates unit with normalized code", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		service := NewConversionService(unitRepo, new(MockEdgeRepository), newTrackingCache(), zap.NewNop())

		unitRepo.On("ExistsByCode", mock.Anything, tenantID, "KG").Return(false, nil)
		unitRepo.On("Save", mock.Anything, mock.AnythingOfType("*uom.UnitOfMeasure")).Return(nil)

		response, err := service.CreateUnit(context.Background(), tenantID, CreateUnitRequest{
			Code:   " kg ",
			Name:   "Kilogram",
			Family: "MASS",
		})
		require.NoError(t, err)
		assert.Equal(t, "KG", response.Code)
		unitRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		service := NewConversionService(unitRepo, new(MockEdgeRepository), newTrackingCache(), zap.NewNop())

		unitRepo.On("ExistsByCode", mock.Anything, tenantID, "KG").Return(true, nil)

		_, err := service.CreateUnit(context.Background(), tenantID, CreateUnitRequest{
			Code:   "KG",
			Name:   "Kilogram",
			Family: "MASS",
		})
		assert.ErrorIs(t, err, shared.ErrDuplicateCode)
		unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestConversionService_CreateEdge(t *testing.T) {
	tenantID := uuid.New()

	t.Run("scoped edge invalidates only the tenant", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		cache := newTrackingCache()
		service := NewConversionService(new(MockUnitRepository), edgeRepo, cache, zap.NewNop())

		edgeRepo.On("FindByPair", mock.Anything, &tenantID, "KG", "G").Return(nil, shared.ErrNotFound)
		edgeRepo.On("Save", mock.Anything, mock.AnythingOfType("*uom.ConversionEdge")).Return(nil)

		response, err := service.CreateEdge(context.Background(), tenantID, CreateEdgeRequest{
			FromCode: "kg",
			ToCode:   "g",
			Factor:   decimal.NewFromInt(1000),
			Scoped:   true,
		})
		require.NoError(t, err)
		assert.False(t, response.Global)
		assert.Equal(t, []uuid.UUID{tenantID}, cache.invalidated)
		assert.Zero(t, cache.invalidatedAll)
	})

	t.Run("global edge drops every snapshot", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		cache := newTrackingCache()
		service := NewConversionService(new(MockUnitRepository), edgeRepo, cache, zap.NewNop())

		edgeRepo.On("FindByPair", mock.Anything, (*uuid.UUID)(nil), "KG", "G").Return(nil, shared.ErrNotFound)
		edgeRepo.On("Save", mock.Anything, mock.AnythingOfType("*uom.ConversionEdge")).Return(nil)

		response, err := service.CreateEdge(context.Background(), tenantID, CreateEdgeRequest{
			FromCode: "KG",
			ToCode:   "G",
			Factor:   decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
		assert.True(t, response.Global)
		assert.Equal(t, 1, cache.invalidatedAll)
		assert.Empty(t, cache.invalidated)
	})

	t.Run("rejects duplicate pair in scope", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		service := NewConversionService(new(MockUnitRepository), edgeRepo, newTrackingCache(), zap.NewNop())

		existing := mustEdge(t, nil, "KG", "G", decimal.NewFromInt(1000))
		edgeRepo.On("FindByPair", mock.Anything, (*uuid.UUID)(nil), "KG", "G").Return(&existing, nil)

		_, err := service.CreateEdge(context.Background(), tenantID, CreateEdgeRequest{
			FromCode: "KG",
			ToCode:   "G",
			Factor:   decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, shared.ErrDuplicateCode)
		edgeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive factor", func(t *testing.T) {
		service := NewConversionService(new(MockUnitRepository), new(MockEdgeRepository), newTrackingCache(), zap.NewNop())

		_, err := service.CreateEdge(context.Background(), tenantID, CreateEdgeRequest{
			FromCode: "KG",
			ToCode:   "G",
			Factor:   decimal.Zero,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidConversionRate)
	})
}

func TestConversionService_Convert(t *testing.T) {
	tenantID := uuid.New()

	t.Run("builds the graph once and serves from cache", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		service := NewConversionService(new(MockUnitRepository), edgeRepo, newTrackingCache(), zap.NewNop())

		edgeRepo.On("FindGlobal", mock.Anything).
			Return([]uom.ConversionEdge{mustEdge(t, nil, "TON", "KG", decimal.NewFromInt(1000))}, nil).Once()
		edgeRepo.On("FindScoped", mock.Anything, tenantID).
			Return([]uom.ConversionEdge{}, nil).Once()

		for i := 0; i < 2; i++ {
			response, err := service.Convert(context.Background(), tenantID, ConvertRequest{
				Quantity: decimal.NewFromInt(2),
				FromCode: "TON",
				ToCode:   "KG",
			})
			require.NoError(t, err)
			assert.True(t, response.Result.Amount().Equal(decimal.NewFromInt(2000)))
			assert.Equal(t, "KG", response.Result.Unit())
		}
		edgeRepo.AssertExpectations(t)
	})

	t.Run("scoped override shadows the global factor", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		service := NewConversionService(new(MockUnitRepository), edgeRepo, newTrackingCache(), zap.NewNop())

		scope := tenantID
		edgeRepo.On("FindGlobal", mock.Anything).
			Return([]uom.ConversionEdge{mustEdge(t, nil, "BAG", "KG", decimal.NewFromInt(25))}, nil)
		edgeRepo.On("FindScoped", mock.Anything, tenantID).
			Return([]uom.ConversionEdge{mustEdge(t, &scope, "BAG", "KG", decimal.NewFromInt(50))}, nil)

		response, err := service.Convert(context.Background(), tenantID, ConvertRequest{
			Quantity: decimal.NewFromInt(3),
			FromCode: "BAG",
			ToCode:   "KG",
		})
		require.NoError(t, err)
		assert.True(t, response.Result.Amount().Equal(decimal.NewFromInt(150)))
		assert.Equal(t, "KG", response.Result.Unit())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		service := NewConversionService(new(MockUnitRepository), new(MockEdgeRepository), newTrackingCache(), zap.NewNop())

		_, err := service.Convert(context.Background(), tenantID, ConvertRequest{
			Quantity: decimal.Zero,
			FromCode: "TON",
			ToCode:   "KG",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("unconnected units report no path", func(t *testing.T) {
		edgeRepo := new(MockEdgeRepository)
		service := NewConversionService(new(MockUnitRepository), edgeRepo, newTrackingCache(), zap.NewNop())

		edgeRepo.On("FindGlobal", mock.Anything).Return([]uom.ConversionEdge{}, nil)
		edgeRepo.On("FindScoped", mock.Anything, tenantID).Return([]uom.ConversionEdge{}, nil)

		_, err := service.Convert(context.Background(), tenantID, ConvertRequest{
			Quantity: decimal.NewFromInt(1),
			FromCode: "TON",
			ToCode:   "PC",
		})
		assert.ErrorIs(t, err, shared.ErrNoConversionPath)
	})
}
