package entity

import (
	"time"

	"github.com/google/uuid"
)

type BillingEventOutcome string

const (
	BillingEventApplied   BillingEventOutcome = "applied"
	BillingEventStale     BillingEventOutcome = "stale"
	BillingEventDuplicate BillingEventOutcome = "duplicate"
	BillingEventIgnored   BillingEventOutcome = "ignored"
	BillingEventLogged    BillingEventOutcome = "logged"
	BillingEventRejected  BillingEventOutcome = "rejected"
	BillingEventFailed    BillingEventOutcome = "failed"
)

// BillingEvent is one row of the webhook audit trail.
type BillingEvent struct {
	Id         uuid.UUID
	Provider   string
	EventId    string
	EventType  string
	UserId     *uuid.UUID
	Outcome    BillingEventOutcome
	Detail     string
	Payload    []byte
	ReceivedAt time.Time
}
