package realtime

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Conn is the minimal surface of a websocket connection the client needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a Conn to a channel URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials over gorilla/websocket.
type WebsocketDialer struct {
	Dialer *websocket.Dialer
}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	wd := d.Dialer
	if wd == nil {
		wd = websocket.DefaultDialer
	}
	conn, resp, err := wd.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Config configures a ChannelClient for one resource key.
type Config struct {
	// URL is the full channel URL for the watched resource.
	URL string
	// OnSignal fires once per inbound message. Message payloads are
	// deliberately ignored: any message means "refetch", never "patch".
	OnSignal func()
	// OnState fires when the connected flag flips.
	OnState func(connected bool)

	Backoff Backoff
	Clock   clockwork.Clock
	Dialer  Dialer
}

// ChannelClient owns one push connection to a single resource and keeps it
// alive: on close or error it schedules exactly one reconnect using the
// configured backoff, and it resets the attempt counter on every successful
// open. Connection failures are never surfaced as errors; the only
// externally visible effect is the connected flag.
type ChannelClient struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	attempts int
	conn     Conn
	timer    clockwork.Timer
}

// NewChannelClient creates a client in StateIdle. Call Start to connect.
func NewChannelClient(cfg Config) *ChannelClient {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Dialer == nil {
		cfg.Dialer = WebsocketDialer{}
	}
	if cfg.Backoff.Base == 0 && cfg.Backoff.Cap == 0 && cfg.Backoff.Jitter == 0 && cfg.Backoff.Rand == nil {
		cfg.Backoff = DefaultBackoff()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ChannelClient{cfg: cfg, ctx: ctx, cancel: cancel, state: StateIdle}
}

// Start begins connecting. It returns immediately; dialing and reconnecting
// happen on background goroutines.
func (c *ChannelClient) Start() {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = Next(c.state, EventDial)
	c.mu.Unlock()
	go c.connect()
}

// Connected reports whether the channel is currently open.
func (c *ChannelClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateOpen
}

// State returns the current lifecycle state.
func (c *ChannelClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stop tears the client down: marks it stopped so in-flight reconnect
// callbacks no-op, cancels any pending reconnect timer, then closes the live
// connection. In that order, so no reconnect can race past disposal.
// After Stop returns no further dials or callbacks occur.
func (c *ChannelClient) Stop() {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return
	}
	c.state = Next(c.state, EventStop)
	timer := c.timer
	conn := c.conn
	c.timer = nil
	c.conn = nil
	c.mu.Unlock()

	c.cancel()
	if timer != nil {
		timer.Stop()
	}
	if conn != nil {
		conn.Close()
	}
}

func (c *ChannelClient) connect() {
	conn, err := c.cfg.Dialer.Dial(c.ctx, c.cfg.URL)

	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		if err == nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.state = Next(c.state, EventClosed)
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		log.Debug().Err(err).Str("url", c.cfg.URL).Msg("channel dial failed")
		return
	}

	c.state = Next(c.state, EventOpened)
	c.attempts = 0
	c.conn = conn
	c.mu.Unlock()

	log.Debug().Str("url", c.cfg.URL).Msg("channel open")
	c.notifyState(true)
	go c.readLoop(conn)
}

func (c *ChannelClient) readLoop(conn Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		if c.cfg.OnSignal != nil {
			c.cfg.OnSignal()
		}
	}

	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return
	}
	c.state = Next(c.state, EventClosed)
	c.conn = nil
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	log.Debug().Str("url", c.cfg.URL).Msg("channel closed")
	c.notifyState(false)
}

// scheduleReconnectLocked arms the single pending reconnect timer.
// Caller holds c.mu.
func (c *ChannelClient) scheduleReconnectLocked() {
	delay := c.cfg.Backoff.Delay(c.attempts)
	c.attempts++
	c.timer = c.cfg.Clock.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.state == StateStopped {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.state = Next(c.state, EventDial)
		c.mu.Unlock()
		go c.connect()
	})
}

func (c *ChannelClient) notifyState(connected bool) {
	if c.cfg.OnState != nil {
		c.cfg.OnState(connected)
	}
}
