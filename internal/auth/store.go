package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSession indicates no token is stored locally.
var ErrNoSession = errors.New("no stored session")

// TokenStore persists the session token between command invocations.
// The file is created with owner-only permissions.
type TokenStore struct {
	path string
}

// NewTokenStore builds a store writing to path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Save writes the token to disk, creating parent directories as needed.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the stored token. Returns ErrNoSession when absent or empty.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read session file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Clear removes the stored token. Clearing an absent session is a no-op.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
