package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"
	"github.com/google/uuid"
)

const ProviderPaddle = "paddle"

type PaddleConfig struct {
	APIKey        string
	WebhookSecret string
	Sandbox       bool
	// BaseURL overrides the API host picked by Sandbox.
	BaseURL string
}

// PaddleGateway implements Gateway for Paddle Billing.
type PaddleGateway struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

func NewPaddleGateway(config PaddleConfig) (*PaddleGateway, error) {
	if config.WebhookSecret == "" {
		return nil, errors.New("paddle webhook secret is required")
	}

	var client *paddle.SDK
	if config.APIKey != "" {
		var opts []paddle.Option
		if config.BaseURL != "" {
			opts = append(opts, paddle.WithBaseURL(config.BaseURL))
		}

		var err error
		if config.Sandbox {
			client, err = paddle.NewSandbox(config.APIKey, opts...)
		} else {
			client, err = paddle.New(config.APIKey, opts...)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create paddle client: %w", err)
		}
	}

	return &PaddleGateway{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
	}, nil
}

func (p *PaddleGateway) Name() string {
	return ProviderPaddle
}

func (p *PaddleGateway) SignatureHeader() string {
	return "Paddle-Signature"
}

func (p *PaddleGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceRef == "" {
		return nil, ErrPriceRequired
	}
	if p.client == nil {
		return nil, fmt.Errorf("%w: paddle API key is not configured", ErrCheckoutFailed)
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceRef,
		Quantity: 1,
	})

	customerRef := req.CustomerRef
	if customerRef == "" && req.Email != "" {
		ref, err := p.createCustomer(ctx, req)
		if err != nil {
			return nil, err
		}
		customerRef = ref
	}

	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id": req.UserID.String(),
		},
	}
	if customerRef != "" {
		transactionReq.CustomerID = paddle.PtrTo(customerRef)
	}
	if req.SuccessURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	if transaction.Checkout == nil || transaction.Checkout.URL == nil {
		return nil, fmt.Errorf("%w: no checkout URL returned from paddle", ErrCheckoutFailed)
	}

	if transaction.CustomerID != nil && *transaction.CustomerID != "" {
		customerRef = *transaction.CustomerID
	}

	return &CheckoutSession{
		URL:         *transaction.Checkout.URL,
		SessionRef:  transaction.ID,
		CustomerRef: customerRef,
	}, nil
}

var customerIDPattern = regexp.MustCompile(`ctm_[a-z0-9]+`)

// createCustomer registers the buyer with Paddle. An email Paddle already
// knows resolves to the existing customer named in the conflict error.
func (p *PaddleGateway) createCustomer(ctx context.Context, req CheckoutRequest) (string, error) {
	customer, err := p.client.CustomersClient.CreateCustomer(ctx, &paddle.CreateCustomerRequest{
		Email: req.Email,
		CustomData: paddle.CustomData{
			"user_id": req.UserID.String(),
		},
	})
	if err == nil {
		return customer.ID, nil
	}

	var apiErr *paddleerr.Error
	if errors.Is(err, paddle.ErrCustomerAlreadyExists) && errors.As(err, &apiErr) {
		if existing := customerIDPattern.FindString(apiErr.Detail); existing != "" {
			return existing, nil
		}
	}
	return "", fmt.Errorf("%w: failed to create paddle customer: %v", ErrCheckoutFailed, err)
}

type paddleEnvelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type paddleEventData struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	CustomerID     string            `json:"customer_id"`
	SubscriptionID string            `json:"subscription_id"`
	CustomData     map[string]any    `json:"custom_data"`
	BillingPeriod  *paddleTimePeriod `json:"billing_period"`
	// Subscription payloads call it current_billing_period.
	CurrentBillingPeriod *paddleTimePeriod `json:"current_billing_period"`
}

type paddleTimePeriod struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (p *PaddleGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: missing Paddle-Signature header", ErrInvalidSignature)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for verification: %w", err)
	}
	req.Header.Set(p.SignatureHeader(), signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var envelope paddleEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if envelope.EventID == "" || envelope.EventType == "" {
		return nil, fmt.Errorf("%w: event_id and event_type are required", ErrMalformedPayload)
	}

	var data paddleEventData
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	event := &Event{
		Provider:    ProviderPaddle,
		ID:          envelope.EventID,
		Type:        envelope.EventType,
		Kind:        mapPaddleEventType(envelope.EventType),
		OccurredAt:  envelope.OccurredAt.UTC(),
		UserID:      userIDFromCustomData(data.CustomData),
		CustomerRef: data.CustomerID,
		Payload:     payload,
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	switch event.Kind {
	case KindCheckoutCompleted, KindChargeSucceeded:
		event.SessionRef = data.ID
		event.SubscriptionRef = data.SubscriptionID
		event.PeriodEnd = periodEnd(data.BillingPeriod)
	case KindSubscriptionCanceled, KindSubscriptionPastDue:
		event.SubscriptionRef = data.ID
		event.PeriodEnd = periodEnd(data.CurrentBillingPeriod)
	}

	return event, nil
}

func mapPaddleEventType(eventType string) EventKind {
	switch eventType {
	case "transaction.completed":
		return KindCheckoutCompleted
	case "transaction.paid":
		return KindChargeSucceeded
	case "subscription.canceled":
		return KindSubscriptionCanceled
	case "subscription.past_due":
		return KindSubscriptionPastDue
	default:
		return KindUnknown
	}
}

func userIDFromCustomData(customData map[string]any) *uuid.UUID {
	raw, ok := customData["user_id"].(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func periodEnd(period *paddleTimePeriod) *time.Time {
	if period == nil || period.EndsAt.IsZero() {
		return nil
	}
	end := period.EndsAt.UTC()
	return &end
}
