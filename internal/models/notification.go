package models

import (
	"encoding/json"
	"time"
)

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationContributionReceived NotificationType = "contribution.received"
	NotificationReservationChanged   NotificationType = "reservation.changed"
)

// Notification is an inbox entry for a wishlist owner.
type Notification struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	WishlistID *int64           `json:"wishlist_id,omitempty"`
	ItemID     *int64           `json:"item_id,omitempty"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Body       *string          `json:"body,omitempty"`
	Data       json.RawMessage  `json:"data,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
}
