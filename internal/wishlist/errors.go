package wishlist

import "errors"

var (
	// ErrWishlistNotFound covers both missing and non-public wishlists.
	ErrWishlistNotFound = errors.New("wishlist not found")
	// ErrItemNotFound covers missing and archived items.
	ErrItemNotFound = errors.New("item not found")
	// ErrAlreadyReserved means a different viewer holds the reservation.
	ErrAlreadyReserved = errors.New("item is already reserved")
	// ErrNoReservation means there is nothing to release.
	ErrNoReservation = errors.New("no active reservation")
	// ErrNotHolder means the caller did not create the reservation.
	ErrNotHolder = errors.New("only the original reserver can unreserve")
	// ErrContributionsDisabled means the item does not accept contributions.
	ErrContributionsDisabled = errors.New("contributions are disabled for this item")
	// ErrAmountTooSmall means the contribution is below the server minimum.
	ErrAmountTooSmall = errors.New("contribution amount is below the minimum")
)
