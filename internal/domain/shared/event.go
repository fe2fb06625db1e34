package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event published on the in-process bus
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for domain events
type BaseEvent struct {
	ID         uuid.UUID
	Type       string
	OccurredOn time.Time
}

// NewBaseEvent creates a new base event with generated ID and current time
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredOn: time.Now(),
	}
}

// EventID returns the unique event ID
func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the event type string
func (e BaseEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.OccurredOn
}

// EventHandler processes domain events dispatched by the bus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventBus publishes domain events to subscribed handlers
type EventBus interface {
	Publish(ctx context.Context, events ...DomainEvent) error
	Subscribe(handler EventHandler, eventTypes ...string)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// IdempotencyStore tracks processed event IDs so that redelivered
// webhook events are handled at most once. MarkProcessed claims an
// event ID; Unmark releases the claim when processing fails, so the
// sender's redelivery is not dropped as a duplicate.
type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, eventID string) error
}
