// Package json persists the credential token as a small JSON file.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mjaros/parley"
)

// Interface compliance check.
var _ parley.TokenStore = (*TokenStore)(nil)

// envelope is the v1 wire format for the persisted token.
type envelope struct {
	Version int    `json:"version"`
	Token   string `json:"token"`
}

// TokenStore stores the token at a fixed path. Writes go through a temp file
// and rename so a crash never leaves a torn token on disk; Clear removes the
// file. A missing file reads as no token.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Token reads the persisted token, or "" when none is stored.
func (s *TokenStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("unmarshal token file: %w", err)
	}
	if env.Version != 1 {
		return "", fmt.Errorf("unsupported token file version: %d", env.Version)
	}
	return env.Token, nil
}

// Save atomically replaces the persisted token.
func (s *TokenStore) Save(token string) error {
	data, err := json.MarshalIndent(envelope{Version: 1, Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an already-empty store is not
// an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
