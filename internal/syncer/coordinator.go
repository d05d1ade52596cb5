package syncer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wishwell/wishwell/internal/realtime"
)

// Config configures a Coordinator for one resource key.
type Config struct {
	// ChannelURL is the push-channel URL for the watched wishlist.
	ChannelURL string
	// OnChange fires whenever either the channel or the poller signals that
	// the resource may have changed. The coordinator does not deduplicate
	// overlapping refreshes; callers converge them with a Resyncer.
	OnChange func()

	PollInterval time.Duration
	Backoff      realtime.Backoff
	Clock        clockwork.Clock
	Dialer       realtime.Dialer
}

// Coordinator is the single integration point for keeping one wishlist view
// live: it owns a realtime channel client and a fallback poller and funnels
// both into one OnChange callback, so consumers never need to know which
// source fired. The poller runs exactly while the channel is disconnected.
type Coordinator struct {
	channel *realtime.ChannelClient
	poller  *Poller

	mu        sync.Mutex
	connected bool
	stopped   bool
}

// NewCoordinator builds the channel client and poller for cfg. Call Start
// to begin watching.
func NewCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{}
	c.poller = NewPoller(cfg.PollInterval, cfg.Clock, cfg.OnChange)
	c.channel = realtime.NewChannelClient(realtime.Config{
		URL:      cfg.ChannelURL,
		Backoff:  cfg.Backoff,
		Clock:    cfg.Clock,
		Dialer:   cfg.Dialer,
		OnSignal: cfg.OnChange,
		OnState:  c.setConnected,
	})
	return c
}

// Start connects the channel and begins fallback polling until it opens.
func (c *Coordinator) Start() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.poller.SetConnected(false)
	c.channel.Start()
}

// Connected reports whether the realtime channel is currently open.
func (c *Coordinator) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Stop tears down the channel client (including any pending reconnect
// timer) and the poll ticker. After Stop there is no further network
// activity for this resource key.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.channel.Stop()
	c.poller.Stop()
}

func (c *Coordinator) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.connected = connected
	c.poller.SetConnected(connected)
}
