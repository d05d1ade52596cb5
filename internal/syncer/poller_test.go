package syncer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func collectTicks(t *testing.T, ticks chan struct{}, want int) {
	t.Helper()
	for i := 0; i < want; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d of %d", i+1, want)
		}
	}
}

func wantNoTick(t *testing.T, ticks chan struct{}) {
	t.Helper()
	select {
	case <-ticks:
		t.Fatal("unexpected tick")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPoller_TicksWhileDisconnected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 16)
	p := NewPoller(10*time.Second, clock, func() { ticks <- struct{}{} })
	defer p.Stop()

	p.SetConnected(false)
	clock.BlockUntil(1)

	clock.Advance(10 * time.Second)
	collectTicks(t, ticks, 1)
	clock.Advance(10 * time.Second)
	collectTicks(t, ticks, 1)
}

func TestPoller_SilentWhileConnected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 16)
	p := NewPoller(10*time.Second, clock, func() { ticks <- struct{}{} })
	defer p.Stop()

	p.SetConnected(true)
	clock.Advance(time.Minute)
	wantNoTick(t, ticks)
}

func TestPoller_StopsOnReconnect(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 16)
	p := NewPoller(10*time.Second, clock, func() { ticks <- struct{}{} })
	defer p.Stop()

	p.SetConnected(false)
	clock.BlockUntil(1)
	clock.Advance(10 * time.Second)
	collectTicks(t, ticks, 1)

	p.SetConnected(true)
	clock.Advance(time.Minute)
	wantNoTick(t, ticks)
}

func TestPoller_RedundantStartKeepsOneTicker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 16)
	p := NewPoller(10*time.Second, clock, func() { ticks <- struct{}{} })
	defer p.Stop()

	p.SetConnected(false)
	p.SetConnected(false)
	clock.BlockUntil(1)

	clock.Advance(10 * time.Second)
	collectTicks(t, ticks, 1)
	wantNoTick(t, ticks)
}

func TestPoller_Stop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 16)
	p := NewPoller(10*time.Second, clock, func() { ticks <- struct{}{} })

	p.SetConnected(false)
	clock.BlockUntil(1)
	p.Stop()

	clock.Advance(time.Minute)
	wantNoTick(t, ticks)
}
