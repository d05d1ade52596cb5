package wishclient

import (
	"errors"
	"fmt"
)

// Kind classifies an intent or read failure for presentation. Network
// failures are transient and safe to retry manually; everything else is a
// server verdict that retrying will not change.
type Kind int

const (
	// KindNetwork covers transport failures: no response was received, so
	// the request may or may not have been applied.
	KindNetwork Kind = iota
	// KindConflict is a business-rule violation, e.g. reserving an item
	// another viewer already holds.
	KindConflict
	// KindForbidden is an ownership violation, e.g. unreserving an item
	// held by someone else.
	KindForbidden
	// KindUnauthenticated means the call needs a signed-in session; callers
	// surface a distinct "sign in" path for it.
	KindUnauthenticated
	// KindValidation is a malformed request, caught client-side where
	// possible and otherwise surfaced verbatim from the server.
	KindValidation
	// KindNotFound means the wishlist or item does not exist.
	KindNotFound
	// KindRateLimited means the server throttled the caller.
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// APIError is a classified failure from the wishlist API.
type APIError struct {
	Kind       Kind
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("wishlist api: %s", e.Kind)
	}
	return fmt.Sprintf("wishlist api: %s: %s", e.Kind, e.Detail)
}

// KindOf extracts the Kind from err. Non-API errors count as network
// failures.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

func kindFromStatus(code int) Kind {
	switch code {
	case 401:
		return KindUnauthenticated
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	case 429:
		return KindRateLimited
	case 400, 422:
		return KindValidation
	default:
		return KindNetwork
	}
}
