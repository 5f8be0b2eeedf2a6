package events

import (
	"context"
	"errors"

	"github.com/sangkips/storefront-api/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// LoggingPublisher logs events instead of shipping them anywhere
type LoggingPublisher struct {
	logger *zap.Logger
}

// NewLoggingPublisher constructs a logging publisher.
func NewLoggingPublisher(logger *zap.Logger) *LoggingPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil {
		return errors.New("events: nil publisher")
	}
	p.logger.Info("domain event",
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID.String()),
		zap.String("tenant_id", event.TenantID.String()),
		zap.Any("payload", event.Payload),
	)
	metrics.ObserveEventPublish(event.Type, nil)
	return nil
}

func (p *LoggingPublisher) Close() error { return nil }

// NewPublisher picks Kafka when brokers are configured and the log otherwise
func NewPublisher(brokers []string, topic string, logger *zap.Logger) Publisher {
	if len(brokers) == 0 {
		logger.Info("no Kafka brokers configured, domain events will be logged only")
		return NewLoggingPublisher(logger)
	}
	logger.Info("publishing domain events to Kafka", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewKafkaPublisher(brokers, topic, logger)
}
