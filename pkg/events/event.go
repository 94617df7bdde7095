package events

import (
	"context"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUBSCRIPTION_ACTIVATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	SubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	SubscriptionCanceled  = "SUBSCRIPTION_CANCELED"
	SubscriptionPastDue   = "SUBSCRIPTION_PAST_DUE"
	AccountProvisioned    = "ACCOUNT_PROVISIONED"
	AccountDeleted        = "ACCOUNT_DELETED"
)

// Identified is implemented by events that carry a stable id a broker can
// deduplicate redeliveries on.
type Identified interface {
	EventID() string
}

type BaseEvent struct {
	ID         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher is anything that can put an event on the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
