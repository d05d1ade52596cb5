package wishclient

const (
	// API endpoints
	PublicWishlistsEndpoint = "/api/public/wishlists"
	PublicWishlistEndpoint  = "/api/public/w/%s"
	ReserveEndpoint         = "/api/public/items/%d/reserve"
	UnreserveEndpoint       = "/api/public/items/%d/unreserve"
	ContributeEndpoint      = "/api/public/items/%d/contribute"

	// Channel endpoint, relative to the channel base URL
	ChannelEndpoint = "/ws/wishlist/%s"

	// Headers
	ViewerTokenHeader = "X-Viewer-Token"

	// MaxMessageChars bounds a contribution message, in code points.
	MaxMessageChars = 280
)
