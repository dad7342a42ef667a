// Package admission provides sliding-window admission control in front of
// the pipeline entry points. The Controller interface is injected so a
// multi-instance deployment can swap the in-memory window for a shared
// counter store.
package admission

import (
	"sync"
	"time"
)

// Decision is the outcome of one admission check. ResetAt tells a rejected
// caller when the window frees up.
type Decision struct {
	Allowed bool      `json:"allowed"`
	ResetAt time.Time `json:"reset_at"`
}

// Controller admits or rejects a request for a caller identity key.
type Controller interface {
	Allow(key string) Decision
}

// SlidingWindow keeps per-key request timestamps and admits at most limit
// requests per rolling window. Counters are the only mutable shared state
// in the pipeline core and are updated under one mutex.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// DefaultLimit and DefaultWindow match the production admission policy.
const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (s *SlidingWindow) Allow(key string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.hits[key] = kept

	if len(kept) >= s.limit {
		return Decision{Allowed: false, ResetAt: kept[0].Add(s.window)}
	}

	s.hits[key] = append(kept, now)
	reset := now.Add(s.window)
	if len(s.hits[key]) > 0 {
		reset = s.hits[key][0].Add(s.window)
	}
	return Decision{Allowed: true, ResetAt: reset}
}

var _ Controller = (*SlidingWindow)(nil)
