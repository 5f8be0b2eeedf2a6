package service

import (
	"context"

	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	"go.uber.org/zap"
)

// publishEvent hands event to the publisher after the write it describes has
// committed. A failed publish is logged; it never fails the request.
func publishEvent(ctx context.Context, publisher events.Publisher, logger *zap.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("domain event not published",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	}
}
