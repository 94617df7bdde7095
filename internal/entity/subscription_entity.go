package entity

import (
	"time"

	"github.com/google/uuid"
)

type Tier string
type SubscriptionStatus string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"

	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
)

func (t Tier) Valid() bool {
	return t == TierFree || t == TierPro
}

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCanceled, SubscriptionStatusIncomplete, SubscriptionStatusPastDue:
		return true
	}
	return false
}

// Subscription is the single plan row of a user. UpdatedAt carries the
// timestamp of the provider event that produced the row, not the wall clock
// of the write, so older deliveries can be recognised and dropped.
type Subscription struct {
	Id                     uuid.UUID
	UserId                 uuid.UUID
	Plan                   Tier
	Status                 SubscriptionStatus
	PaymentCustomerRef     *string
	PaymentSessionRef      *string
	PaymentSubscriptionRef *string
	PeriodEnd              *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NoEventApplied is the UpdatedAt of a row that no provider event has
// touched yet. Any real event orders after it.
var NoEventApplied = time.Unix(0, 0).UTC()

// DefaultSubscription is the state a user without a row is treated as having.
func DefaultSubscription(userId uuid.UUID, now time.Time) *Subscription {
	return &Subscription{
		Id:        uuid.New(),
		UserId:    userId,
		Plan:      TierFree,
		Status:    SubscriptionStatusActive,
		CreatedAt: now,
		UpdatedAt: NoEventApplied,
	}
}
