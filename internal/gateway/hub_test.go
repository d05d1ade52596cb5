package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wishwell/wishwell/internal/events"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(DefaultConnectionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Start(ctx)
	t.Cleanup(cancel)

	handler := NewWebSocketHandler(hub)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialWatcher(t *testing.T, srv *httptest.Server, publicID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/wishlist/" + publicID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *events.Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var event events.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return &event
}

func TestHubBroadcastReachesWatchers(t *testing.T) {
	hub, srv := newTestHub(t)

	watcherA := dialWatcher(t, srv, "w1")
	watcherB := dialWatcher(t, srv, "w1")
	waitForWatchers(t, hub, 2)

	hub.Broadcast("w1", &events.Event{
		EventID:          "ev-1",
		Type:             events.TypeReservationChanged,
		WishlistPublicID: "w1",
	})

	for _, conn := range []*websocket.Conn{watcherA, watcherB} {
		event := readEvent(t, conn)
		if event.EventID != "ev-1" {
			t.Errorf("EventID = %s, want ev-1", event.EventID)
		}
		if event.Type != events.TypeReservationChanged {
			t.Errorf("Type = %s, want %s", event.Type, events.TypeReservationChanged)
		}
	}
}

func TestHubBroadcastScopedToWishlist(t *testing.T) {
	hub, srv := newTestHub(t)

	target := dialWatcher(t, srv, "w1")
	other := dialWatcher(t, srv, "w2")
	waitForWatchers(t, hub, 2)

	hub.Broadcast("w1", &events.Event{EventID: "ev-1", Type: events.TypeItemsChanged, WishlistPublicID: "w1"})

	if event := readEvent(t, target); event.EventID != "ev-1" {
		t.Errorf("EventID = %s, want ev-1", event.EventID)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("watcher on a different wishlist received the event")
	}
}

func TestHubBroadcastWithoutWatchers(t *testing.T) {
	hub, _ := newTestHub(t)

	// Must not panic or block
	hub.Broadcast("ghost", &events.Event{EventID: "ev-1", Type: events.TypeItemsChanged})
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dialWatcher(t, srv, "w1")
	waitForWatchers(t, hub, 1)

	conn.Close()
	waitForWatchers(t, hub, 0)

	_, rooms := hub.Stats()
	if rooms != 0 {
		t.Errorf("active rooms = %d, want 0 after last watcher left", rooms)
	}
}

func TestStatsEndpoint(t *testing.T) {
	hub, srv := newTestHub(t)

	dialWatcher(t, srv, "w1")
	dialWatcher(t, srv, "w2")
	waitForWatchers(t, hub, 2)

	resp, err := http.Get(srv.URL + "/ws/stats")
	if err != nil {
		t.Fatalf("GET /ws/stats: %v", err)
	}
	defer resp.Body.Close()

	var stats struct {
		TotalWatchers   int `json:"total_watchers"`
		ActiveWishlists int `json:"active_wishlists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalWatchers != 2 || stats.ActiveWishlists != 2 {
		t.Errorf("stats = %+v, want 2 watchers in 2 wishlists", stats)
	}
}

// waitForWatchers polls until the hub reports n registered watchers.
// Registration happens after the HTTP upgrade returns, so tests cannot
// assume it is immediate.
func waitForWatchers(t *testing.T, hub *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if total, _ := hub.Stats(); total == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	total, _ := hub.Stats()
	t.Fatalf("watchers = %d, want %d", total, n)
}
