package billing

import (
	"time"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
)

// Transition computes the full next state of a user's subscription for a
// state-changing event. It reports false when the event does not apply to
// the current state.
func Transition(current *entity.Subscription, event *Event, userID uuid.UUID, now time.Time) (*entity.Subscription, bool) {
	switch event.Kind {
	case KindCheckoutCompleted:
		next := &entity.Subscription{
			Id:        uuid.New(),
			UserId:    userID,
			CreatedAt: now,
		}
		if current != nil {
			*next = *current
		}
		next.Plan = entity.TierPro
		next.Status = entity.SubscriptionStatusActive
		next.PaymentCustomerRef = pick(event.CustomerRef, next.PaymentCustomerRef)
		next.PaymentSessionRef = pick(event.SessionRef, next.PaymentSessionRef)
		next.PaymentSubscriptionRef = pick(event.SubscriptionRef, next.PaymentSubscriptionRef)
		next.PeriodEnd = event.PeriodEnd
		next.UpdatedAt = event.OccurredAt
		return next, true

	case KindSubscriptionCanceled, KindSubscriptionPastDue:
		if current == nil || current.Plan != entity.TierPro {
			return nil, false
		}
		next := *current
		next.Status = entity.SubscriptionStatusCanceled
		if event.Kind == KindSubscriptionPastDue {
			next.Status = entity.SubscriptionStatusPastDue
		}
		next.PaymentSubscriptionRef = pick(event.SubscriptionRef, next.PaymentSubscriptionRef)
		if event.PeriodEnd != nil {
			next.PeriodEnd = event.PeriodEnd
		}
		next.UpdatedAt = event.OccurredAt
		return &next, true
	}
	return nil, false
}

func pick(value string, fallback *string) *string {
	if value == "" {
		return fallback
	}
	return &value
}
