package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaddle(t *testing.T) *PaddleGateway {
	t.Helper()
	g, err := NewPaddleGateway(PaddleConfig{WebhookSecret: testPaddleSecret, Sandbox: true})
	require.NoError(t, err)
	return g
}

func TestPaddleParseTransactionCompleted(t *testing.T) {
	g := newTestPaddle(t)
	userID := uuid.New()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	body := transactionCompleted("evt_1", "txn_1", userID, at).bytes(t)

	event, err := g.ParseWebhook(context.Background(), body, signPaddle(testPaddleSecret, body))
	require.NoError(t, err)

	assert.Equal(t, ProviderPaddle, event.Provider)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, KindCheckoutCompleted, event.Kind)
	assert.True(t, at.Equal(event.OccurredAt))
	require.NotNil(t, event.UserID)
	assert.Equal(t, userID, *event.UserID)
	assert.Equal(t, "txn_1", event.SessionRef)
	assert.Equal(t, "ctm_01test", event.CustomerRef)
	assert.Equal(t, "sub_01test", event.SubscriptionRef)
	require.NotNil(t, event.PeriodEnd)
	assert.True(t, at.AddDate(0, 1, 0).Equal(*event.PeriodEnd))
}

func TestPaddleParseEventKinds(t *testing.T) {
	g := newTestPaddle(t)
	at := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		eventType string
		want      EventKind
	}{
		{"transaction.paid", KindChargeSucceeded},
		{"subscription.canceled", KindSubscriptionCanceled},
		{"subscription.past_due", KindSubscriptionPastDue},
		{"customer.created", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			body := subscriptionEvent("evt_"+tt.eventType, tt.eventType, "sub_9", at).bytes(t)
			event, err := g.ParseWebhook(context.Background(), body, signPaddle(testPaddleSecret, body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Kind)
			assert.Nil(t, event.UserID)
		})
	}
}

func TestPaddleRejectsBadSignatures(t *testing.T) {
	g := newTestPaddle(t)
	body := transactionCompleted("evt_1", "txn_1", uuid.New(), time.Now()).bytes(t)

	tests := map[string]string{
		"missing":      "",
		"wrong secret": signPaddle("another_secret", body),
		"garbage":      "not-a-signature",
	}
	for name, signature := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := g.ParseWebhook(context.Background(), body, signature)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}

	t.Run("tampered body", func(t *testing.T) {
		signature := signPaddle(testPaddleSecret, body)
		tampered := append([]byte{}, body...)
		tampered[len(tampered)-2] = ' '
		_, err := g.ParseWebhook(context.Background(), tampered, signature)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestPaddleMalformedPayloadAfterVerification(t *testing.T) {
	g := newTestPaddle(t)
	body := []byte(`{"event_type": 42}`)

	_, err := g.ParseWebhook(context.Background(), body, signPaddle(testPaddleSecret, body))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestPaddleCheckoutRequiresPrice(t *testing.T) {
	g := newTestPaddle(t)
	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrPriceRequired)

	_, err = g.CreateCheckout(context.Background(), CheckoutRequest{UserID: uuid.New(), PriceRef: "pri_1"})
	assert.ErrorIs(t, err, ErrCheckoutFailed, "no API key configured")
}

func TestNewPaddleGatewayRequiresSecret(t *testing.T) {
	_, err := NewPaddleGateway(PaddleConfig{})
	assert.Error(t, err)
}

// paddleAPI is a stand-in for the Paddle REST API that records requests.
type paddleAPI struct {
	mu            sync.Mutex
	customers     []map[string]any
	transactions  []map[string]any
	customerReply func(w http.ResponseWriter)
}

func newPaddleAPI(t *testing.T) (*paddleAPI, *PaddleGateway) {
	t.Helper()
	api := &paddleAPI{
		customerReply: func(w http.ResponseWriter) {
			writeJSON(w, http.StatusCreated, `{"data":{"id":"ctm_created","email":"buyer@example.com"}}`)
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)

	g, err := NewPaddleGateway(PaddleConfig{
		APIKey:        "pdl_sdbx_apikey_test",
		WebhookSecret: testPaddleSecret,
		Sandbox:       true,
		BaseURL:       srv.URL,
	})
	require.NoError(t, err)
	return api, g
}

func (a *paddleAPI) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	a.mu.Lock()
	defer a.mu.Unlock()
	switch r.URL.Path {
	case "/customers":
		a.customers = append(a.customers, body)
		a.customerReply(w)
	case "/transactions":
		a.transactions = append(a.transactions, body)
		customerID, _ := body["customer_id"].(string)
		raw, _ := json.Marshal(map[string]any{"data": map[string]any{
			"id":          "txn_checkout",
			"customer_id": customerID,
			"checkout":    map[string]any{"url": "https://pay.example.com/checkout?_ptxn=txn_checkout"},
		}})
		writeJSON(w, http.StatusCreated, string(raw))
	default:
		writeJSON(w, http.StatusNotFound, `{"error":{"type":"request_error","code":"not_found","detail":"not found"}}`)
	}
}

func (a *paddleAPI) reply(fn func(w http.ResponseWriter)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.customerReply = fn
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestPaddleCheckoutCreatesCustomer(t *testing.T) {
	api, g := newPaddleAPI(t)
	userID := uuid.New()

	session, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		UserID:   userID,
		Email:    "buyer@example.com",
		PriceRef: "pri_pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "ctm_created", session.CustomerRef)
	assert.Equal(t, "txn_checkout", session.SessionRef)
	assert.Equal(t, "https://pay.example.com/checkout?_ptxn=txn_checkout", session.URL)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.customers, 1)
	assert.Equal(t, "buyer@example.com", api.customers[0]["email"])
	require.Len(t, api.transactions, 1)
	assert.Equal(t, "ctm_created", api.transactions[0]["customer_id"])
	assert.Equal(t, map[string]any{"user_id": userID.String()}, api.transactions[0]["custom_data"])
}

func TestPaddleCheckoutReusesStoredCustomer(t *testing.T) {
	api, g := newPaddleAPI(t)

	session, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		UserID:      uuid.New(),
		Email:       "buyer@example.com",
		PriceRef:    "pri_pro",
		CustomerRef: "ctm_stored",
	})
	require.NoError(t, err)

	assert.Equal(t, "ctm_stored", session.CustomerRef)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.customers)
	require.Len(t, api.transactions, 1)
	assert.Equal(t, "ctm_stored", api.transactions[0]["customer_id"])
}

func TestPaddleCheckoutAdoptsExistingCustomer(t *testing.T) {
	api, g := newPaddleAPI(t)
	api.reply(func(w http.ResponseWriter) {
		writeJSON(w, http.StatusConflict, `{"error":{"type":"request_error","code":"customer_already_exists","detail":"customer email conflicts with customer of id ctm_01existing"}}`)
	})

	session, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		UserID:   uuid.New(),
		Email:    "buyer@example.com",
		PriceRef: "pri_pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "ctm_01existing", session.CustomerRef)
	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.transactions, 1)
	assert.Equal(t, "ctm_01existing", api.transactions[0]["customer_id"])
}

func TestPaddleCheckoutFailsWhenCustomerCannotBeCreated(t *testing.T) {
	api, g := newPaddleAPI(t)
	api.reply(func(w http.ResponseWriter) {
		writeJSON(w, http.StatusInternalServerError, `{"error":{"type":"api_error","code":"internal_error","detail":"boom"}}`)
	})

	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		UserID:   uuid.New(),
		Email:    "buyer@example.com",
		PriceRef: "pri_pro",
	})
	assert.ErrorIs(t, err, ErrCheckoutFailed)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.transactions)
}
