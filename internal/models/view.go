package models

import "time"

// WishlistView is the read model returned to viewers. It is replaced
// wholesale on every resync; clients never patch it from channel payloads.
type WishlistView struct {
	ID          int64      `json:"id"`
	PublicID    string     `json:"public_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Currency    Currency   `json:"currency"`
	IsPublic    bool       `json:"is_public"`
	IsOwner     bool       `json:"is_owner"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []ItemView `json:"items"`
}

// ItemView is one item as seen by a specific viewer. ReservedByMe and
// MyContributionCents are relative to the viewer token on the request.
// CollectedCents may exceed PriceCents; over-funding is not an error.
type ItemView struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	URL                 *string    `json:"url,omitempty"`
	ImageURL            *string    `json:"image_url,omitempty"`
	PriceCents          int64      `json:"price_cents"`
	AllowContributions  bool       `json:"allow_contributions"`
	Notes               *string    `json:"notes,omitempty"`
	Position            int        `json:"position"`
	IsArchived          bool       `json:"is_archived"`
	Reserved            bool       `json:"reserved"`
	ReservedByMe        bool       `json:"reserved_by_me"`
	ReservedAt          *time.Time `json:"reserved_at,omitempty"`
	CollectedCents      int64      `json:"collected_cents"`
	MyContributionCents int64      `json:"my_contribution_cents"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PublicWishlistSummary is one entry in the public wishlist directory.
type PublicWishlistSummary struct {
	PublicID   string    `json:"public_id"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	Currency   Currency  `json:"currency"`
	ItemCount  int       `json:"item_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
