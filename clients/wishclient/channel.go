package wishclient

import (
	"fmt"
	"net/url"
)

// ChannelURL derives the push-channel URL for a wishlist from the HTTP base
// URL: same host, scheme swapped to the websocket scheme.
func ChannelURL(baseURL, publicID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = fmt.Sprintf(ChannelEndpoint, publicID)
	u.RawQuery = ""
	return u.String(), nil
}
