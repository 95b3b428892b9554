package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/uom"
)

// MemoryGraphCache is an in-process conversion graph cache. Snapshots are
// immutable once built, so readers share them without copying.
type MemoryGraphCache struct {
	mu     sync.RWMutex
	graphs map[uuid.UUID]*uom.ConversionGraph
}

// NewMemoryGraphCache creates an empty in-memory graph cache
func NewMemoryGraphCache() *MemoryGraphCache {
	return &MemoryGraphCache{graphs: make(map[uuid.UUID]*uom.ConversionGraph)}
}

// Get returns the cached snapshot for a tenant, if any
func (c *MemoryGraphCache) Get(tenantID uuid.UUID) (*uom.ConversionGraph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	graph, ok := c.graphs[tenantID]
	return graph, ok
}

// Set stores a snapshot for a tenant
func (c *MemoryGraphCache) Set(tenantID uuid.UUID, graph *uom.ConversionGraph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs[tenantID] = graph
}

// Invalidate drops the snapshot for one tenant
func (c *MemoryGraphCache) Invalidate(_ context.Context, tenantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.graphs, tenantID)
}

// InvalidateAll drops every snapshot
func (c *MemoryGraphCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs = make(map[uuid.UUID]*uom.ConversionGraph)
}

// Len returns the number of cached snapshots
func (c *MemoryGraphCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.graphs)
}
