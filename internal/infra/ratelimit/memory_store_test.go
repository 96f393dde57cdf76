package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_FixedWindow(t *testing.T) {
	store := NewMemoryStore(2, time.Minute)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	for i := range 2 {
		allowed, err := store.Allow("10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, _ := store.Allow("10.0.0.1")
	assert.False(t, allowed)

	allowed, _ = store.Allow("10.0.0.2")
	assert.True(t, allowed, "limits are per identifier")

	store.now = func() time.Time { return base.Add(time.Minute) }
	allowed, _ = store.Allow("10.0.0.1")
	assert.True(t, allowed, "a new window resets the counter")
}

func TestMemoryStore_SweepsExpiredWindows(t *testing.T) {
	store := NewMemoryStore(5, time.Second)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	_, _ = store.Allow("a")
	_, _ = store.Allow("b")

	store.now = func() time.Time { return base.Add(2 * sweepEvery) }
	_, _ = store.Allow("c")

	assert.Len(t, store.windows, 1)
	assert.Contains(t, store.windows, "c")
}
