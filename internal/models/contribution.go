package models

import "time"

// Contribution is one viewer's payment toward an item. An item's collected
// total is the sum of its non-refunded contributions; totals are always
// computed server-side, never incremented by clients.
type Contribution struct {
	ID                int64      `json:"id"`
	ItemID            int64      `json:"item_id"`
	ContributorUserID *int64     `json:"contributor_user_id,omitempty"`
	ViewerTokenHash   string     `json:"viewer_token_hash"`
	AmountCents       int64      `json:"amount_cents"`
	Message           *string    `json:"message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
}
