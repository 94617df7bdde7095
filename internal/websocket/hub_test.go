package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func attach(t *testing.T, hub *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, buffer)}
	hub.register <- client
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for _, c := range hub.clients[userID] {
			if c == client {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestSendPlanStateReachesEverySessionOfTheUser(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	other := uuid.New()

	first := attach(t, hub, userID, 4)
	second := attach(t, hub, userID, 4)
	stranger := attach(t, hub, other, 4)

	hub.SendPlanState(userID, dto.PlanState{Tier: "pro", Status: "active"})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var msg dto.PlanStateMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, MessageTypePlanState, msg.Type)
			assert.Equal(t, "pro", msg.Data.Tier)
			assert.Equal(t, "active", msg.Data.Status)
		case <-time.After(time.Second):
			t.Fatal("plan state was not delivered")
		}
	}
	assert.Empty(t, stranger.Send)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	client := attach(t, hub, userID, 1)

	hub.SendPlanState(userID, dto.PlanState{Tier: "pro", Status: "active"})
	hub.SendPlanState(userID, dto.PlanState{Tier: "pro", Status: "canceled"})

	require.Eventually(t, func() bool {
		return hub.ClientCount(userID) == 0
	}, time.Second, 5*time.Millisecond)

	// The buffered message is still readable, then the channel is closed.
	_, ok := <-client.Send
	assert.True(t, ok)
	_, ok = <-client.Send
	assert.False(t, ok)
}

func TestSendWithoutSessionsIsANoop(t *testing.T) {
	hub := startHub(t)
	assert.NotPanics(t, func() {
		hub.SendPlanState(uuid.New(), dto.PlanState{Tier: "free", Status: "active"})
	})
}

func TestSendRacingUnregisterDoesNotPanic(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()

	for i := 0; i < 200; i++ {
		client := attach(t, hub, userID, 1)

		var wg sync.WaitGroup
		wg.Add(5)
		go func() {
			defer wg.Done()
			hub.leave(client)
		}()
		for j := 0; j < 4; j++ {
			go func() {
				defer wg.Done()
				hub.SendPlanState(userID, dto.PlanState{Tier: "pro", Status: "active"})
			}()
		}
		wg.Wait()

		require.Eventually(t, func() bool {
			return hub.ClientCount(userID) == 0
		}, time.Second, time.Millisecond)
	}
}

func TestStoppedHubDoesNotBlockSessions(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := attach(t, hub, uuid.New(), 1)
	cancel()
	<-stopped

	_, open := <-client.Send
	assert.False(t, open)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.leave(client)
		}
		assert.False(t, hub.join(&Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}))
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("session teardown blocked on a stopped hub")
	}
}
