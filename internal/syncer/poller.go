package syncer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPollInterval bounds staleness while the channel is down.
const DefaultPollInterval = 10 * time.Second

// Poller issues refresh ticks at a fixed interval, but only while the
// realtime channel is disconnected. While the channel is healthy no ticks
// fire at all, so the server sees no redundant polling. It owns nothing but
// one ticker handle; running state is purely a function of the connected
// flag fed to SetConnected.
type Poller struct {
	interval time.Duration
	clock    clockwork.Clock
	onTick   func()

	mu   sync.Mutex
	stop chan struct{}
}

// NewPoller creates a poller that is initially not running.
func NewPoller(interval time.Duration, clock clockwork.Clock, onTick func()) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{interval: interval, clock: clock, onTick: onTick}
}

// SetConnected starts polling when connected is false and stops it when
// connected is true. Redundant calls with the same value are no-ops.
func (p *Poller) SetConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if connected {
		p.stopLocked()
		return
	}
	if p.stop != nil {
		return
	}

	stop := make(chan struct{})
	p.stop = stop
	ticker := p.clock.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				select {
				case <-stop:
					// Tick raced the stop; drop it.
					return
				default:
				}
				p.onTick()
			}
		}
	}()
}

// Stop halts polling regardless of the connected flag.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}
