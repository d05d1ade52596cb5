// Package ratelimit provides a small in-memory sliding window limiter for
// the public intent endpoints. State lives in process memory; a multi-node
// deployment would move this to a shared store.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Limiter tracks request timestamps per key over a sliding window.
type Limiter struct {
	window time.Duration
	clock  clockwork.Clock

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewLimiter creates a limiter with the given window.
func NewLimiter(window time.Duration, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Limiter{
		window: window,
		clock:  clock,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a hit for key and reports whether it stays within limit
// hits per window. A denied request is not recorded.
func (l *Limiter) Allow(key string, limit int) bool {
	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= limit {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// Prune drops keys with no hits inside the window. Call periodically to
// bound memory on long-running processes.
func (l *Limiter) Prune() {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, times := range l.hits {
		live := false
		for _, ts := range times {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.hits, key)
		}
	}
}
