package realtime

import (
	"math/rand"
	"time"
)

// Backoff computes reconnect delays: min(Cap, Base<<attempts) plus a uniform
// random jitter in [0, Jitter). Jitter keeps a fleet of clients from
// reconnecting in lockstep after a server restart.
type Backoff struct {
	Base   time.Duration
	Cap    time.Duration
	Jitter time.Duration

	// Rand returns a value in [0, 1). Defaults to math/rand.Float64.
	Rand func() float64
}

// DefaultBackoff returns the production reconnect schedule.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:   1 * time.Second,
		Cap:    30 * time.Second,
		Jitter: 400 * time.Millisecond,
	}
}

// Delay returns the wait before reconnect attempt number attempts, where 0
// is the first reconnect after a drop.
func (b Backoff) Delay(attempts int) time.Duration {
	d := b.Cap
	// 1<<attempts overflows past 62; anything that large is capped anyway.
	if attempts < 63 {
		if exp := b.Base << uint(attempts); exp > 0 && exp < b.Cap {
			d = exp
		}
	}

	if b.Jitter > 0 {
		random := b.Rand
		if random == nil {
			random = rand.Float64
		}
		d += time.Duration(random() * float64(b.Jitter))
	}
	return d
}
