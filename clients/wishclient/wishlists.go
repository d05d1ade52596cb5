package wishclient

import (
	"context"
	"fmt"

	"github.com/wishwell/wishwell/internal/models"
)

// PublicWishlists lists the public wishlist directory.
func (c *Client) PublicWishlists(ctx context.Context) ([]models.PublicWishlistSummary, error) {
	var out []models.PublicWishlistSummary
	if err := c.get(ctx, PublicWishlistsEndpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicWishlist fetches the canonical read model for one wishlist. The
// returned view is scoped to this client's viewer token: ReservedByMe and
// MyContributionCents reflect that token's reservations and contributions.
func (c *Client) PublicWishlist(ctx context.Context, publicID string) (*models.WishlistView, error) {
	var out models.WishlistView
	if err := c.get(ctx, fmt.Sprintf(PublicWishlistEndpoint, publicID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
