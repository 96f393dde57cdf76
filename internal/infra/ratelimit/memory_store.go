package ratelimit

import (
	"sync"
	"time"
)

// sweepEvery bounds how often expired windows are purged from the map.
const sweepEvery = time.Minute

type window struct {
	start time.Time
	count int
}

// MemoryStore is a fixed-window counter keyed by client identifier.
type MemoryStore struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryStore allows max requests per identifier in each window.
func NewMemoryStore(max int, windowSize time.Duration) *MemoryStore {
	return &MemoryStore{
		max:     max,
		window:  windowSize,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements echo's middleware.RateLimiterStore.
func (s *MemoryStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.start) >= s.window {
		w = &window{start: now}
		s.windows[identifier] = w
	}

	if w.count >= s.max {
		return false, nil
	}
	w.count++

	return true, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepEvery {
		return
	}
	s.lastSweep = now

	for id, w := range s.windows {
		if now.Sub(w.start) >= s.window {
			delete(s.windows, id)
		}
	}
}
