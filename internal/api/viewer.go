package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"

	"github.com/wishwell/wishwell/clients/wishclient"
	"github.com/wishwell/wishwell/internal/identity"
)

// HashViewerToken derives the stored viewer hash from a raw token. The
// pepper keeps leaked database rows from being matched back to tokens.
func HashViewerToken(token, pepper string) string {
	sum := sha256.Sum256([]byte(token + ":" + pepper))
	return hex.EncodeToString(sum[:])
}

// viewerHash extracts and hashes the viewer token from a request. An empty
// or placeholder token yields ok=false; intents without a usable viewer
// identity cannot be attributed and are rejected.
func (s *Server) viewerHash(r *http.Request) (string, bool) {
	token := r.Header.Get(wishclient.ViewerTokenHeader)
	if token == "" || token == identity.PlaceholderToken {
		return "", false
	}
	return HashViewerToken(token, s.pepper), true
}

// clientIP returns the remote address without the port. Proxy headers are
// deliberately ignored; this service is expected to sit behind a trusted
// frontend that rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
