package auth

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewTokenStore(path)

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("load before save: %v, want ErrNoSession", err)
	}
	if err := store.Save("the-token"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "the-token" {
		t.Fatalf("token = %q", token)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("session file mode = %o, want 600", info.Mode().Perm())
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("load after clear: %v, want ErrNoSession", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestTokenStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewTokenStore(path)
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("whitespace-only file: %v, want ErrNoSession", err)
	}
}
