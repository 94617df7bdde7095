// Package billing turns payment provider webhooks into subscription state
// transitions and creates hosted checkout sessions.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature covers a missing, malformed or mismatching signature.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrUnattributed     = errors.New("webhook cannot be attributed to a user")
	ErrCheckoutFailed   = errors.New("checkout session could not be created")
	ErrPriceRequired    = errors.New("price reference is required")
)

type EventKind string

const (
	KindCheckoutCompleted    EventKind = "checkout_completed"
	KindChargeSucceeded      EventKind = "charge_succeeded"
	KindSubscriptionCanceled EventKind = "subscription_canceled"
	KindSubscriptionPastDue  EventKind = "subscription_past_due"
	KindInformational        EventKind = "informational"
	KindUnknown              EventKind = "unknown"
)

// Event is a verified provider notification normalised to what the
// subscription state machine needs.
type Event struct {
	Provider        string
	ID              string
	Type            string
	Kind            EventKind
	OccurredAt      time.Time
	UserID          *uuid.UUID
	CustomerRef     string
	SessionRef      string
	SubscriptionRef string
	PeriodEnd       *time.Time
	Payload         []byte
}

type CheckoutRequest struct {
	UserID      uuid.UUID
	Email       string
	PriceRef    string
	CustomerRef string
	SuccessURL  string
}

type CheckoutSession struct {
	URL         string
	SessionRef  string
	CustomerRef string
}

// Gateway is one payment provider.
type Gateway interface {
	Name() string
	// SignatureHeader is the request header carrying the signature, or ""
	// when the provider signs inside the body.
	SignatureHeader() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature before looking at the payload.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}
