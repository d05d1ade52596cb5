package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToken_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer_token")
	p := NewProvider(path)

	first := p.Token()
	if first == "" || first == PlaceholderToken {
		t.Fatalf("Token() = %q, want a real token", first)
	}
	if second := p.Token(); second != first {
		t.Errorf("Token() = %q on second call, want %q", second, first)
	}
}

func TestToken_StableAcrossProviders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer_token")

	first := NewProvider(path).Token()
	second := NewProvider(path).Token()
	if second != first {
		t.Errorf("new provider returned %q, want persisted %q", second, first)
	}
}

func TestToken_NeverRegeneratesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer_token")
	if err := os.WriteFile(path, []byte("existing-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := NewProvider(path).Token(); got != "existing-token" {
		t.Errorf("Token() = %q, want existing-token", got)
	}
}

func TestToken_PlaceholderWithoutStore(t *testing.T) {
	if got := NewProvider("").Token(); got != PlaceholderToken {
		t.Errorf("Token() = %q, want %q", got, PlaceholderToken)
	}
}

func TestToken_DistinctPerStore(t *testing.T) {
	a := NewProvider(filepath.Join(t.TempDir(), "viewer_token")).Token()
	b := NewProvider(filepath.Join(t.TempDir(), "viewer_token")).Token()
	if a == b {
		t.Errorf("two stores produced the same token %q", a)
	}
}
