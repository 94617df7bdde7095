package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// EventMemo remembers provider event ids that were already processed so a
// redelivery can be acknowledged without touching storage.
type EventMemo struct {
	cache *cache.Cache
}

func NewEventMemo(ttl time.Duration) *EventMemo {
	return &EventMemo{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (m *EventMemo) key(provider, eventID string) string {
	return provider + ":" + eventID
}

func (m *EventMemo) Seen(provider, eventID string) bool {
	if eventID == "" {
		return false
	}
	_, found := m.cache.Get(m.key(provider, eventID))
	return found
}

func (m *EventMemo) Remember(provider, eventID string) {
	if eventID == "" {
		return
	}
	m.cache.Set(m.key(provider, eventID), struct{}{}, cache.DefaultExpiration)
}

func (m *EventMemo) Count() int {
	return m.cache.ItemCount()
}
