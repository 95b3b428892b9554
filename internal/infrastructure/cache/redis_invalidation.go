package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stockflow/backend/internal/domain/uom"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// invalidationMessage travels over the pub/sub channel. All=true drops every
// snapshot; otherwise only the named tenant is dropped.
type invalidationMessage struct {
	All      bool      `json:"all"`
	TenantID uuid.UUID `json:"tenant_id,omitempty"`
	Sender   string    `json:"sender"`
}

// RedisGraphCache wraps a local graph cache with Redis pub/sub invalidation
// fanout. Edge writes on one instance drop the snapshot on every instance,
// so no node keeps serving a stale conversion graph.
//
// The local cache is dropped before the publish; a lost publish leaves other
// nodes stale until their next edge write, never this one.
type RedisGraphCache struct {
	local    *MemoryGraphCache
	client   *redis.Client
	channel  string
	senderID string
	logger   *zap.Logger

	mu       sync.Mutex
	cancelFn context.CancelFunc
}

// NewRedisGraphCache creates a graph cache with Redis invalidation fanout.
// The caller retains ownership of the Redis client.
func NewRedisGraphCache(client *redis.Client, channel string, logger *zap.Logger) *RedisGraphCache {
	return &RedisGraphCache{
		local:    NewMemoryGraphCache(),
		client:   client,
		channel:  channel,
		senderID: uuid.NewString(),
		logger:   logger,
	}
}

// Get returns the locally cached snapshot for a tenant, if any
func (c *RedisGraphCache) Get(tenantID uuid.UUID) (*uom.ConversionGraph, bool) {
	return c.local.Get(tenantID)
}

// Set stores a snapshot locally. Snapshots are rebuilt per instance; only
// invalidations travel over the wire.
func (c *RedisGraphCache) Set(tenantID uuid.UUID, graph *uom.ConversionGraph) {
	c.local.Set(tenantID, graph)
}

// Invalidate drops the snapshot for one tenant on every instance
func (c *RedisGraphCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	c.local.Invalidate(ctx, tenantID)
	c.publish(ctx, invalidationMessage{TenantID: tenantID, Sender: c.senderID})
}

// InvalidateAll drops every snapshot on every instance
func (c *RedisGraphCache) InvalidateAll(ctx context.Context) {
	c.local.InvalidateAll(ctx)
	c.publish(ctx, invalidationMessage{All: true, Sender: c.senderID})
}

// Start subscribes to the invalidation channel and applies remote
// invalidations to the local cache until Close is called
func (c *RedisGraphCache) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelFn != nil {
		return
	}

	subCtx, cancel := context.WithCancel(ctx)
	c.cancelFn = cancel

	pubsub := c.client.Subscribe(subCtx, c.channel)
	go c.listen(subCtx, pubsub)
}

// Close stops the subscription loop
func (c *RedisGraphCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelFn != nil {
		c.cancelFn()
		c.cancelFn = nil
	}
}

func (c *RedisGraphCache) listen(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.handle(ctx, msg.Payload)
		}
	}
}

func (c *RedisGraphCache) handle(ctx context.Context, payload string) {
	var msg invalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		c.logger.Warn("malformed cache invalidation message", zap.Error(err))
		return
	}
	// our own publish already dropped the local entry
	if msg.Sender == c.senderID {
		return
	}

	if msg.All {
		c.local.InvalidateAll(ctx)
	} else {
		c.local.Invalidate(ctx, msg.TenantID)
	}
	c.logger.Debug("applied remote graph invalidation",
		zap.Bool("all", msg.All),
		zap.String("tenant_id", msg.TenantID.String()))
}

func (c *RedisGraphCache) publish(ctx context.Context, msg invalidationMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal invalidation message", zap.Error(err))
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := c.client.Publish(publishCtx, c.channel, data).Err(); err != nil {
		c.logger.Error("failed to publish graph invalidation",
			zap.String("channel", c.channel),
			zap.Error(err))
	}
}
