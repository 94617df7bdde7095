package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/entitlement"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

// PlanStateNotifier receives every applied transition. Delivery is advisory;
// entitlement checks always read storage.
type PlanStateNotifier interface {
	NotifyPlanState(ctx context.Context, userID uuid.UUID, plan entitlement.Plan)
}

type Result struct {
	Outcome      entity.BillingEventOutcome
	Event        *Event
	UserID       *uuid.UUID
	Subscription *entity.Subscription
}

// Processor drives the per-user subscription state machine from verified
// provider webhooks. All writes are full-state upserts guarded by the
// event timestamp, so redelivered and reordered events are harmless.
type Processor struct {
	gateway   Gateway
	factory   unitofwork.RepositoryFactory
	memo      *memory.EventMemo
	notifier  PlanStateNotifier
	publisher events.Publisher
	logger    logger.ILogger
	now       func() time.Time
}

func NewProcessor(
	gateway Gateway,
	factory unitofwork.RepositoryFactory,
	memo *memory.EventMemo,
	notifier PlanStateNotifier,
	publisher events.Publisher,
	logger logger.ILogger,
) *Processor {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Processor{
		gateway:   gateway,
		factory:   factory,
		memo:      memo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *Processor) Gateway() Gateway {
	return p.gateway
}

// HandleWebhook returns an error only for deliveries the provider should
// see rejected: unverifiable ones and ones that failed to apply.
func (p *Processor) HandleWebhook(ctx context.Context, payload []byte, signature string) (*Result, error) {
	provider := p.gateway.Name()

	event, err := p.gateway.ParseWebhook(ctx, payload, signature)
	if err != nil {
		p.logger.Warn("BILLING", "Webhook rejected", map[string]interface{}{
			"provider": provider,
			"error":    err.Error(),
		})
		p.audit(ctx, &entity.BillingEvent{
			Provider: provider,
			Outcome:  entity.BillingEventRejected,
			Detail:   err.Error(),
			Payload:  payload,
		})
		return nil, err
	}

	details := map[string]interface{}{
		"provider":   provider,
		"event_id":   event.ID,
		"event_type": event.Type,
	}

	if p.memo != nil && p.memo.Seen(provider, event.ID) {
		p.logger.Info("BILLING", "Duplicate webhook acknowledged", details)
		return p.finish(ctx, event, nil, entity.BillingEventDuplicate, "already processed"), nil
	}

	if p.handled(ctx, provider, event.ID) {
		p.logger.Info("BILLING", "Redelivered webhook acknowledged", details)
		if p.memo != nil {
			p.memo.Remember(provider, event.ID)
		}
		return p.finish(ctx, event, nil, entity.BillingEventDuplicate, "already in audit log"), nil
	}

	var result *Result
	switch event.Kind {
	case KindCheckoutCompleted, KindSubscriptionCanceled, KindSubscriptionPastDue:
		result, err = p.apply(ctx, event)
		if err != nil {
			details["error"] = err.Error()
			p.logger.Error("BILLING", "Failed to apply webhook", details)
			p.finish(ctx, event, event.UserID, entity.BillingEventFailed, err.Error())
			return nil, err
		}
	case KindChargeSucceeded, KindInformational:
		p.logger.Info("BILLING", "Payment event recorded", details)
		result = p.finish(ctx, event, event.UserID, entity.BillingEventLogged, "")
	default:
		p.logger.Debug("BILLING", "Ignoring unhandled webhook type", details)
		result = p.finish(ctx, event, event.UserID, entity.BillingEventIgnored, "unhandled event type")
	}

	if p.memo != nil {
		p.memo.Remember(provider, event.ID)
	}
	return result, nil
}

// transaction is what one guarded write did, recorded after the unit of
// work is closed.
type transaction struct {
	userID  *uuid.UUID
	next    *entity.Subscription
	applied bool
	// changed is false when the row already held the state the event carries.
	changed bool
	skip    string
}

func (p *Processor) apply(ctx context.Context, event *Event) (*Result, error) {
	tx, err := p.write(ctx, event)
	if err != nil {
		return nil, err
	}

	if tx.skip != "" {
		p.logger.Info("BILLING", "Webhook does not change subscription state", map[string]interface{}{
			"event_id":         event.ID,
			"event_type":       event.Type,
			"subscription_ref": event.SubscriptionRef,
			"reason":           tx.skip,
		})
		return p.finish(ctx, event, tx.userID, entity.BillingEventIgnored, tx.skip), nil
	}

	details := map[string]interface{}{
		"user_id":     tx.userID.String(),
		"event_id":    event.ID,
		"event_type":  event.Type,
		"occurred_at": event.OccurredAt,
	}
	if !tx.applied {
		p.logger.Info("BILLING", "Out-of-order webhook discarded", details)
		return p.finish(ctx, event, tx.userID, entity.BillingEventStale, "stored state is newer"), nil
	}

	if !tx.changed {
		p.logger.Info("BILLING", "Webhook repeats stored subscription state", details)
		result := p.finish(ctx, event, tx.userID, entity.BillingEventDuplicate, "subscription already in this state")
		result.Subscription = tx.next
		return result, nil
	}

	details["plan"] = string(tx.next.Plan)
	details["status"] = string(tx.next.Status)
	p.logger.Info("BILLING", "Subscription state applied", details)

	result := p.finish(ctx, event, tx.userID, entity.BillingEventApplied, "")
	result.Subscription = tx.next

	plan := entitlement.Plan{Tier: tx.next.Plan, Status: tx.next.Status, PeriodEnd: tx.next.PeriodEnd}
	if p.notifier != nil {
		p.notifier.NotifyPlanState(ctx, *tx.userID, plan)
	}
	p.publish(ctx, event, *tx.userID, tx.next)

	return result, nil
}

func (p *Processor) write(ctx context.Context, event *Event) (*transaction, error) {
	uow := p.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	repo := uow.SubscriptionRepository()

	userID, current, err := p.attribute(ctx, repo, event)
	if err != nil {
		return nil, err
	}
	if userID == nil {
		if event.Kind == KindCheckoutCompleted {
			return nil, ErrUnattributed
		}
		return &transaction{skip: "no matching subscription"}, nil
	}

	next, ok := Transition(current, event, *userID, p.now())
	if !ok {
		return &transaction{userID: userID, skip: "transition does not apply"}, nil
	}

	applied, err := repo.Upsert(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &transaction{
		userID:  userID,
		next:    next,
		applied: applied,
		changed: current == nil || !sameState(current, next),
	}, nil
}

// handledOutcomes are the audit outcomes after which a delivery must not be
// applied again. Rejected and failed deliveries are retried by the provider.
var handledOutcomes = []string{
	string(entity.BillingEventApplied),
	string(entity.BillingEventStale),
	string(entity.BillingEventIgnored),
	string(entity.BillingEventLogged),
}

// handled looks the event up in the audit log, which outlives the memo and
// is shared by every instance. A lookup failure falls through to the
// state comparison in apply.
func (p *Processor) handled(ctx context.Context, provider, eventID string) bool {
	if eventID == "" {
		return false
	}
	uow := p.factory.NewUnitOfWork(ctx)
	count, err := uow.BillingEventRepository().Count(ctx,
		specification.ByProviderEvent{Provider: provider, EventID: eventID},
		specification.ByOutcomes{Outcomes: handledOutcomes},
	)
	if err != nil {
		p.logger.Warn("BILLING", "Failed to check billing audit log", map[string]interface{}{
			"event_id": eventID,
			"error":    err.Error(),
		})
		return false
	}
	return count > 0
}

func sameState(a, b *entity.Subscription) bool {
	return a.Plan == b.Plan &&
		a.Status == b.Status &&
		sameTime(a.PeriodEnd, b.PeriodEnd) &&
		sameRef(a.PaymentCustomerRef, b.PaymentCustomerRef) &&
		sameRef(a.PaymentSessionRef, b.PaymentSessionRef) &&
		sameRef(a.PaymentSubscriptionRef, b.PaymentSubscriptionRef)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type subscriptionFinder interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
}

// attribute finds the user an event belongs to: the id carried by the
// provider, else the row holding the provider subscription or customer ref.
func (p *Processor) attribute(ctx context.Context, repo subscriptionFinder, event *Event) (*uuid.UUID, *entity.Subscription, error) {
	if event.UserID != nil {
		current, err := repo.FindOne(ctx, specification.ByUserID{UserID: *event.UserID})
		if err != nil {
			return nil, nil, err
		}
		return event.UserID, current, nil
	}

	lookups := []specification.Specification{}
	if event.SubscriptionRef != "" {
		lookups = append(lookups, specification.ByPaymentSubscriptionRef{Ref: event.SubscriptionRef})
	}
	if event.CustomerRef != "" {
		lookups = append(lookups, specification.ByPaymentCustomerRef{Ref: event.CustomerRef})
	}
	for _, spec := range lookups {
		current, err := repo.FindOne(ctx, spec)
		if err != nil {
			return nil, nil, err
		}
		if current != nil {
			userID := current.UserId
			return &userID, current, nil
		}
	}
	return nil, nil, nil
}

func (p *Processor) publish(ctx context.Context, event *Event, userID uuid.UUID, sub *entity.Subscription) {
	eventType := events.SubscriptionActivated
	switch sub.Status {
	case entity.SubscriptionStatusCanceled:
		eventType = events.SubscriptionCanceled
	case entity.SubscriptionStatusPastDue:
		eventType = events.SubscriptionPastDue
	}

	data := map[string]interface{}{
		"user_id":    userID.String(),
		"plan":       string(sub.Plan),
		"status":     string(sub.Status),
		"provider":   event.Provider,
		"event_id":   event.ID,
		"session_id": event.SessionRef,
	}
	if sub.PeriodEnd != nil {
		data["period_end"] = sub.PeriodEnd.Format(time.RFC3339)
	}

	var id string
	if event.ID != "" {
		id = event.Provider + ":" + event.ID + ":" + eventType
	}

	err := p.publisher.Publish(ctx, events.BaseEvent{
		ID:         id,
		Type:       eventType,
		Data:       data,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		p.logger.Warn("BILLING", "Failed to publish subscription event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

func (p *Processor) finish(ctx context.Context, event *Event, userID *uuid.UUID, outcome entity.BillingEventOutcome, detail string) *Result {
	p.audit(ctx, &entity.BillingEvent{
		Provider:  event.Provider,
		EventId:   event.ID,
		EventType: event.Type,
		UserId:    userID,
		Outcome:   outcome,
		Detail:    detail,
		Payload:   event.Payload,
	})
	return &Result{Outcome: outcome, Event: event, UserID: userID}
}

// audit never fails the webhook; the trail is best effort.
func (p *Processor) audit(ctx context.Context, row *entity.BillingEvent) {
	row.ReceivedAt = p.now()
	uow := p.factory.NewUnitOfWork(ctx)
	if err := uow.BillingEventRepository().Create(ctx, row); err != nil {
		p.logger.Error("BILLING", "Failed to write billing audit row", map[string]interface{}{
			"event_id": row.EventId,
			"outcome":  string(row.Outcome),
			"error":    err.Error(),
		})
	}
}

// IsClientError reports whether err came from the delivery itself rather
// than from this service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrMalformedPayload) || errors.Is(err, ErrUnattributed)
}
