package ratelimit

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(time.Minute, clock)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("key", 5) {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("key", 5) {
		t.Error("request over the limit was allowed")
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(time.Minute, clock)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("key", 3) {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("key", 3) {
		t.Error("request over the limit was allowed")
	}

	clock.Advance(time.Minute + time.Second)
	if !limiter.Allow("key", 3) {
		t.Error("request denied after the window slid past old hits")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(time.Minute, clock)

	for i := 0; i < 2; i++ {
		limiter.Allow("a", 2)
	}
	if limiter.Allow("a", 2) {
		t.Error("key a should be exhausted")
	}
	if !limiter.Allow("b", 2) {
		t.Error("key b should be unaffected by key a")
	}
}

func TestLimiterDeniedRequestNotRecorded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(time.Minute, clock)

	limiter.Allow("key", 1)
	for i := 0; i < 10; i++ {
		limiter.Allow("key", 1)
	}

	// Only the single allowed hit ages out; the denials must not have
	// extended the penalty.
	clock.Advance(time.Minute + time.Second)
	if !limiter.Allow("key", 1) {
		t.Error("denied requests extended the window")
	}
}

func TestLimiterPrune(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(time.Minute, clock)

	limiter.Allow("stale", 5)
	clock.Advance(2 * time.Minute)
	limiter.Allow("fresh", 5)

	limiter.Prune()

	limiter.mu.Lock()
	_, staleKept := limiter.hits["stale"]
	_, freshKept := limiter.hits["fresh"]
	limiter.mu.Unlock()

	if staleKept {
		t.Error("stale key survived prune")
	}
	if !freshKept {
		t.Error("fresh key was pruned")
	}
}
