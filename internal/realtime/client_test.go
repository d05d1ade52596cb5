package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type dialResult struct {
	conn Conn
	err  error
}

// scriptDialer lets a test observe every dial and decide its outcome.
type scriptDialer struct {
	dials   chan struct{}
	results chan dialResult
}

func newScriptDialer() *scriptDialer {
	return &scriptDialer{
		dials:   make(chan struct{}, 16),
		results: make(chan dialResult, 16),
	}
}

func (d *scriptDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.dials <- struct{}{}
	r := <-d.results
	return r.conn, r.err
}

type fakeConn struct {
	msgs   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan []byte, 16), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-c.msgs:
		return 1, m, nil
	case <-c.closed:
		return 0, nil, errors.New("connection closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func noJitterBackoff() Backoff {
	b := DefaultBackoff()
	b.Rand = func() float64 { return 0 }
	return b
}

func waitDial(t *testing.T, d *scriptDialer) {
	t.Helper()
	select {
	case <-d.dials:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dial")
	}
}

func wantNoDial(t *testing.T, d *scriptDialer) {
	t.Helper()
	select {
	case <-d.dials:
		t.Fatal("unexpected dial")
	case <-time.After(50 * time.Millisecond):
	}
}

func waitState(t *testing.T, states chan bool, want bool) {
	t.Helper()
	select {
	case got := <-states:
		if got != want {
			t.Fatalf("state change = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
	}
}

func newTestClient(clock clockwork.Clock, d *scriptDialer, states chan bool, signals chan struct{}) *ChannelClient {
	return NewChannelClient(Config{
		URL:     "ws://example.test/ws/wishlist/abc",
		Backoff: noJitterBackoff(),
		Clock:   clock,
		Dialer:  d,
		OnSignal: func() {
			if signals != nil {
				signals <- struct{}{}
			}
		},
		OnState: func(connected bool) {
			if states != nil {
				states <- connected
			}
		},
	})
}

func TestChannelClient_OpenDeliversSignals(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()
	states := make(chan bool, 16)
	signals := make(chan struct{}, 16)

	c := newTestClient(clock, d, states, signals)
	c.Start()
	defer c.Stop()

	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	waitState(t, states, true)

	if !c.Connected() {
		t.Error("Connected() = false after open")
	}

	// Payload content is ignored; arrival alone fires the signal.
	conn.msgs <- []byte(`{"type":"contribution.changed"}`)
	conn.msgs <- []byte("garbage")
	for i := 0; i < 2; i++ {
		select {
		case <-signals:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for signal")
		}
	}
}

func TestChannelClient_ReconnectBackoff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()

	c := newTestClient(clock, d, nil, nil)
	c.Start()
	defer c.Stop()

	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}

	// Consecutive failures back off 1s, 2s, 4s (jitter pinned to zero).
	for _, delay := range []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second} {
		clock.BlockUntil(1)
		clock.Advance(delay - time.Millisecond)
		wantNoDial(t, d)
		clock.Advance(time.Millisecond)
		waitDial(t, d)
		d.results <- dialResult{err: errors.New("refused")}
	}
}

func TestChannelClient_AttemptsResetOnOpen(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()
	states := make(chan bool, 16)

	c := newTestClient(clock, d, states, nil)
	c.Start()
	defer c.Stop()

	// Two failures walk the schedule up to 2s.
	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
	clock.BlockUntil(1)
	clock.Advance(1 * time.Second)
	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	// Successful open resets the schedule.
	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	waitState(t, states, true)

	// Next drop starts over at delay(0) = 1s.
	conn.Close()
	waitState(t, states, false)
	clock.BlockUntil(1)
	clock.Advance(999 * time.Millisecond)
	wantNoDial(t, d)
	clock.Advance(1 * time.Millisecond)
	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
}

func TestChannelClient_StopDuringReconnectWait(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()

	c := newTestClient(clock, d, nil, nil)
	c.Start()
	waitDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
	clock.BlockUntil(1)

	c.Stop()
	clock.Advance(time.Hour)
	wantNoDial(t, d)

	if got := c.State(); got != StateStopped {
		t.Errorf("State() = %v after Stop, want stopped", got)
	}
}

func TestChannelClient_StopClosesLiveConnection(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()
	states := make(chan bool, 16)

	c := newTestClient(clock, d, states, nil)
	c.Start()
	waitDial(t, d)
	conn := newFakeConn()
	d.results <- dialResult{conn: conn}
	waitState(t, states, true)

	c.Stop()

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not close the live connection")
	}

	// The read loop observes the close but must not schedule a reconnect.
	clock.Advance(time.Hour)
	wantNoDial(t, d)
	select {
	case got := <-states:
		t.Errorf("unexpected state change %v after Stop", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelClient_StartTwiceDialsOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newScriptDialer()

	c := newTestClient(clock, d, nil, nil)
	c.Start()
	c.Start()
	defer c.Stop()

	waitDial(t, d)
	wantNoDial(t, d)
	d.results <- dialResult{err: errors.New("refused")}
}
