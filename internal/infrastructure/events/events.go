// Package events publishes domain events (orders, payments, statements) to
// Kafka, or to the log when no brokers are configured.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	OrderCreated     = "order.created"
	OrderCancelled   = "order.cancelled"
	PaymentRecorded  = "payment.recorded"
	PaymentVoided    = "payment.voided"
	StatementEmailed = "statement.emailed"
)

// Event is the envelope written to the topic
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	TenantID   uuid.UUID `json:"tenant_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New stamps a fresh event
func New(eventType string, tenantID uuid.UUID, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		TenantID:   tenantID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events. Publish must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
