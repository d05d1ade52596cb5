package events

import (
	"encoding/json"
	"strconv"
	"time"
)

// Event types fanned out to watchers. Clients treat every event as an
// opaque "changed" signal and refetch; the payload exists for logging and
// future server-side consumers, never for client-side patching.
const (
	TypeReservationChanged  = "reservation.changed"
	TypeContributionChanged = "contribution.changed"
	TypeItemsChanged        = "items.changed"
	TypeNotificationsUpdate = "notifications.updated"
)

// Event is the envelope published on the bus and forwarded over websockets.
type Event struct {
	EventID          string          `json:"event_id"`
	Type             string          `json:"type"`
	WishlistPublicID string          `json:"wishlist_public_id,omitempty"`
	UserID           int64           `json:"user_id,omitempty"`
	ServerTS         time.Time       `json:"server_ts"`
	Data             json.RawMessage `json:"data,omitempty"`
}

const (
	// WishlistSubjectPrefix scopes wishlist events; the last token is the
	// wishlist's public id.
	WishlistSubjectPrefix = "wishlist.events."
	// WishlistSubjectFilter subscribes to every wishlist's events.
	WishlistSubjectFilter = "wishlist.events.>"
	// UserSubjectPrefix scopes per-user events (notifications, balance).
	UserSubjectPrefix = "user.events."
)

// WishlistSubject returns the bus subject for one wishlist's events.
func WishlistSubject(publicID string) string {
	return WishlistSubjectPrefix + publicID
}

// UserSubject returns the bus subject for one user's events.
func UserSubject(userID int64) string {
	return UserSubjectPrefix + strconv.FormatInt(userID, 10)
}
