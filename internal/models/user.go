package models

import "time"

// User is a registered account. Viewers do not need one; users exist for
// wishlist ownership, sessions, and attributed contributions.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  *string   `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
