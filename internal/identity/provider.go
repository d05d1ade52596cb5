package identity

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PlaceholderToken is returned when no token store is available. Servers
// must never treat it as a real viewer identity.
const PlaceholderToken = "viewer-token-unavailable"

const tokenFileName = "viewer_token"

// Provider hands out a stable pseudonymous viewer token for this machine.
// The token is a correlation key, not a security boundary: it only lets the
// server tell "reserved by me" apart from "reserved by someone else" without
// a login. The first call generates and persists the token; every later call
// returns the same value, across processes and restarts.
type Provider struct {
	path string

	mu    sync.Mutex
	token string
}

// NewProvider creates a provider backed by the file at path. An empty path
// means no store is available and Token returns PlaceholderToken.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// NewDefaultProvider stores the token under the user config directory.
func NewDefaultProvider() *Provider {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("no user config dir, viewer token will not persist")
		return NewProvider("")
	}
	return NewProvider(filepath.Join(dir, "wishwell", tokenFileName))
}

// Token returns the persistent viewer token, creating it on first use.
// A token read from the store is never regenerated.
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token
	}
	if p.path == "" {
		return PlaceholderToken
	}

	if data, err := os.ReadFile(p.path); err == nil {
		if tok := strings.TrimSpace(string(data)); tok != "" {
			p.token = tok
			return p.token
		}
	}

	tok := uuid.NewString()
	if err := p.persist(tok); err != nil {
		log.Warn().Err(err).Str("path", p.path).Msg("failed to persist viewer token")
		return PlaceholderToken
	}
	p.token = tok
	return p.token
}

func (p *Provider) persist(tok string) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.path, []byte(tok+"\n"), 0o600)
}
