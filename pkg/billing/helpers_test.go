package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"notekeeper-be/pkg/entitlement"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testPaddleSecret = "pdl_ntfset_01test_secret"

func signPaddle(secret string, body []byte) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + ":"))
	mac.Write(body)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

type paddlePayload struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	Data       map[string]any
}

func (p paddlePayload) bytes(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"event_id":    p.EventID,
		"event_type":  p.EventType,
		"occurred_at": p.OccurredAt.UTC().Format(time.RFC3339Nano),
		"data":        p.Data,
	})
	require.NoError(t, err)
	return raw
}

func transactionCompleted(eventID, txnID string, userID uuid.UUID, at time.Time) paddlePayload {
	return paddlePayload{
		EventID:    eventID,
		EventType:  "transaction.completed",
		OccurredAt: at,
		Data: map[string]any{
			"id":              txnID,
			"status":          "completed",
			"customer_id":     "ctm_01test",
			"subscription_id": "sub_01test",
			"custom_data":     map[string]any{"user_id": userID.String()},
			"billing_period": map[string]any{
				"starts_at": at.UTC().Format(time.RFC3339),
				"ends_at":   at.AddDate(0, 1, 0).UTC().Format(time.RFC3339),
			},
		},
	}
}

func subscriptionEvent(eventID, eventType, subID string, at time.Time) paddlePayload {
	return paddlePayload{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: at,
		Data: map[string]any{
			"id":          subID,
			"status":      "canceled",
			"customer_id": "ctm_01test",
		},
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []entitlement.Plan
}

func (n *recordingNotifier) NotifyPlanState(_ context.Context, _ uuid.UUID, plan entitlement.Plan) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, plan)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]string, 0, len(p.events))
	for _, e := range p.events {
		res = append(res, e.EventType())
	}
	return res
}
