package service

import (
	"context"

	"retail-backoffice/internal/events"
	"retail-backoffice/internal/metrics"

	"go.uber.org/zap"
)

// notifier publishes after the fact; failures are logged and counted, never returned.
// Events passed to one notify call are delivered in order.
type notifier struct {
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func (n notifier) notify(ctx context.Context, batch ...events.Event) {
	if n.publisher == nil || len(batch) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		for _, event := range batch {
			if err := n.publisher.Publish(ctx, event); err != nil {
				n.log.Warn("Failed to publish event",
					zap.String("action", event.Action),
					zap.String("key", event.Key),
					zap.Error(err),
				)
				n.metrics.EventPublishFails.WithLabelValues(event.Action).Inc()
			}
		}
	}()
}
