package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/models"
)

// SessionStore is the lookup the verifier needs.
type SessionStore interface {
	UserBySessionToken(ctx context.Context, token string) (*models.User, error)
}

// SessionVerifier resolves authenticated users from a bearer token or the
// session cookie.
type SessionVerifier struct {
	store SessionStore
}

// NewSessionVerifier creates a verifier backed by store.
func NewSessionVerifier(store SessionStore) *SessionVerifier {
	return &SessionVerifier{store: store}
}

// UserID returns the authenticated user's id for the request, or ok=false.
func (v *SessionVerifier) UserID(r *http.Request) (int64, bool) {
	token := sessionToken(r)
	if token == "" {
		return 0, false
	}

	user, err := v.store.UserBySessionToken(r.Context(), token)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Error().Err(err).Msg("session lookup failed")
		}
		return 0, false
	}
	return user.ID, true
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, found := strings.CutPrefix(auth, "Bearer "); found {
			return token
		}
		return ""
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}
