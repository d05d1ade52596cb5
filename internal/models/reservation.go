package models

import "time"

// Reservation marks an item as taken by one viewer. At most one reservation
// per item may have a nil ReleasedAt; the database enforces this with a
// partial unique index.
type Reservation struct {
	ID              int64      `json:"id"`
	ItemID          int64      `json:"item_id"`
	ViewerTokenHash string     `json:"viewer_token_hash"`
	CreatedAt       time.Time  `json:"created_at"`
	ReleasedAt      *time.Time `json:"released_at,omitempty"`
}

// Active reports whether the reservation currently holds the item.
func (r Reservation) Active() bool {
	return r.ReleasedAt == nil
}
