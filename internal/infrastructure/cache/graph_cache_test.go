package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/uom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uomapp "github.com/stockflow/backend/internal/application/uom"
)

var _ uomapp.GraphCache = (*MemoryGraphCache)(nil)
var _ uomapp.GraphCache = (*RedisGraphCache)(nil)

func TestMemoryGraphCache(t *testing.T) {
	cache := NewMemoryGraphCache()
	tenantA := uuid.New()
	tenantB := uuid.New()

	edge, err := uom.NewConversionEdge(nil, "KG", "G", decimal.NewFromInt(1000))
	require.NoError(t, err)
	graph := uom.NewConversionGraph([]uom.ConversionEdge{*edge})

	_, ok := cache.Get(tenantA)
	assert.False(t, ok)

	cache.Set(tenantA, graph)
	cache.Set(tenantB, graph)
	got, ok := cache.Get(tenantA)
	assert.True(t, ok)
	assert.Same(t, graph, got)
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate(context.Background(), tenantA)
	_, ok = cache.Get(tenantA)
	assert.False(t, ok)
	_, ok = cache.Get(tenantB)
	assert.True(t, ok)

	cache.InvalidateAll(context.Background())
	assert.Zero(t, cache.Len())
}
