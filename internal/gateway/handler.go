package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles websocket upgrade requests for wishlist watchers.
type WebSocketHandler struct {
	hub *Hub
}

// NewWebSocketHandler creates a websocket handler backed by hub.
func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWishlistConnection upgrades GET /ws/wishlist/{public_id}.
func (h *WebSocketHandler) HandleWishlistConnection(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("public_id")
	if publicID == "" {
		http.Error(w, "public_id is required", http.StatusBadRequest)
		return
	}

	if err := h.hub.UpgradeConnection(w, r, publicID); err != nil {
		log.Error().
			Err(err).
			Str("public_id", publicID).
			Msg("failed to upgrade websocket connection")
		return
	}
}

// HandleConnectionStats returns active watcher counts.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	watchers, rooms := h.hub.Stats()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"total_watchers":%d,"active_wishlists":%d}`, watchers, rooms)
}

// RegisterRoutes registers websocket routes on mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/wishlist/{public_id}", h.HandleWishlistConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
