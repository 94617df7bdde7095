package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventMemo(t *testing.T) {
	memo := NewEventMemo(time.Hour)

	assert.False(t, memo.Seen("paddle", "evt_1"))
	memo.Remember("paddle", "evt_1")
	assert.True(t, memo.Seen("paddle", "evt_1"))
	assert.False(t, memo.Seen("midtrans", "evt_1"), "ids are scoped per provider")

	memo.Remember("paddle", "")
	assert.False(t, memo.Seen("paddle", ""))
	assert.Equal(t, 1, memo.Count())
}

func TestEventMemoExpiry(t *testing.T) {
	memo := NewEventMemo(10 * time.Millisecond)
	memo.Remember("paddle", "evt_1")
	time.Sleep(30 * time.Millisecond)
	assert.False(t, memo.Seen("paddle", "evt_1"))
}
