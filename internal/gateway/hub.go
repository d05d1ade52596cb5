package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/events"
)

// Hub manages websocket watchers grouped by wishlist public id. Watchers
// are write-only from the server's point of view: inbound frames are read
// and dropped so ping/pong keeps working, but they carry no commands.
type Hub struct {
	rooms map[string]map[*Connection]bool
	mu    sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan BroadcastMessage
}

// Connection is one websocket watcher on a wishlist.
type Connection struct {
	ID       string
	PublicID string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds websocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage is one event queued for fanout to a wishlist's watchers.
type BroadcastMessage struct {
	PublicID string
	Event    *events.Event
}

// DefaultConnectionConfig returns the default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewHub creates a websocket hub.
func NewHub(config ConnectionConfig) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
	}
}

// Start processes broadcast messages until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("websocket hub started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("websocket hub shutting down")
			return
		case message := <-h.broadcastCh:
			h.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a websocket watcher on the
// given wishlist.
func (h *Hub) UpgradeConnection(w http.ResponseWriter, r *http.Request, publicID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.NewString(),
		PublicID:    publicID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Hub:         h,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	h.register(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("public_id", publicID).
		Msg("websocket watcher connected")
	return nil
}

func (h *Hub) register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[conn.PublicID] == nil {
		h.rooms[conn.PublicID] = make(map[*Connection]bool)
	}
	h.rooms[conn.PublicID][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("public_id", conn.PublicID).
		Int("watchers", len(h.rooms[conn.PublicID])).
		Msg("watcher registered")
}

func (h *Hub) unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if watchers, exists := h.rooms[conn.PublicID]; exists {
		if _, exists := watchers[conn]; exists {
			delete(watchers, conn)
			close(conn.Send)

			if len(watchers) == 0 {
				delete(h.rooms, conn.PublicID)
			}

			log.Info().
				Str("connection_id", conn.ID).
				Str("public_id", conn.PublicID).
				Msg("watcher unregistered")
		}
	}
}

// Broadcast queues an event for every watcher of a wishlist. Dropping is
// acceptable: watchers that miss a signal converge on their next poll.
func (h *Hub) Broadcast(publicID string, event *events.Event) {
	select {
	case h.broadcastCh <- BroadcastMessage{PublicID: publicID, Event: event}:
	default:
		log.Warn().Str("public_id", publicID).Msg("broadcast channel full, dropping message")
	}
}

func (h *Hub) handleBroadcast(message BroadcastMessage) {
	h.mu.RLock()
	watchers, exists := h.rooms[message.PublicID]
	if !exists {
		h.mu.RUnlock()
		return
	}

	targets := make([]*Connection, 0, len(watchers))
	for conn := range watchers {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	payload, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		select {
		case conn.Send <- payload:
		default:
			// Slow or dead watcher, drop it
			log.Warn().
				Str("connection_id", conn.ID).
				Str("public_id", conn.PublicID).
				Msg("watcher send buffer full, closing connection")
			h.unregister(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", message.Event.Type).
		Str("public_id", message.PublicID).
		Int("watchers", len(targets)).
		Msg("event broadcasted")
}

// Stats reports the active watcher counts.
func (h *Hub) Stats() (totalWatchers, activeRooms int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, watchers := range h.rooms {
		totalWatchers += len(watchers)
	}
	return totalWatchers, len(h.rooms)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}
		// Watchers send nothing meaningful; frames are read only to keep
		// the connection's pong handling alive.
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ReadTimeout))
	}
}
