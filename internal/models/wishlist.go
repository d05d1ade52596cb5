package models

import "time"

// Currency is the display currency of a wishlist. Prices are always stored
// in minor units regardless of currency.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyRUB Currency = "RUB"
)

// Wishlist is the server-side row for a wishlist.
type Wishlist struct {
	ID          int64     `json:"id"`
	PublicID    string    `json:"public_id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Currency    Currency  `json:"currency"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WishlistItem is the server-side row for a single item on a wishlist.
type WishlistItem struct {
	ID                 int64     `json:"id"`
	WishlistID         int64     `json:"wishlist_id"`
	Name               string    `json:"name"`
	URL                *string   `json:"url,omitempty"`
	ImageURL           *string   `json:"image_url,omitempty"`
	PriceCents         int64     `json:"price_cents"`
	AllowContributions bool      `json:"allow_contributions"`
	Notes              *string   `json:"notes,omitempty"`
	Position           int       `json:"position"`
	IsArchived         bool      `json:"is_archived"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
