package eventbus

import (
	"context"

	"github.com/stockflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ZapEventPublisher writes domain events to the structured log. It is the
// default publisher until an external consumer needs the events on a broker.
type ZapEventPublisher struct {
	logger *zap.Logger
}

var _ shared.EventPublisher = (*ZapEventPublisher)(nil)

// NewZapEventPublisher creates a publisher that logs each event
func NewZapEventPublisher(logger *zap.Logger) *ZapEventPublisher {
	return &ZapEventPublisher{logger: logger.Named("events")}
}

// Publish logs each event at info level
func (p *ZapEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		p.logger.Info("domain event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("tenant_id", event.TenantID().String()),
			zap.Time("occurred_at", event.OccurredAt()))
	}
	return nil
}
