package redditauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileStoreState is the JSON document persisted by FileTokenStore.
type fileStoreState struct {
	IsAuthed  bool      `json:"is_authed"`
	GrantType GrantType `json:"grant_type"`
	Token     *Token    `json:"token,omitempty"`
}

// FileTokenStore is a TokenStore backed by a single JSON file, so a saved
// session survives process restarts. The state is loaded once at
// construction; reads are served from memory and every mutation is written
// through to disk.
type FileTokenStore struct {
	mu    sync.Mutex
	path  string
	state fileStoreState
}

// NewFileTokenStore opens or creates a token store at path. A missing file
// is treated as an empty store.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: store path is required", ErrInvalidConfiguration)
	}

	s := &FileTokenStore{
		path:  path,
		state: fileStoreState{GrantType: GrantTypeNone},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redditauth: reading token store: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("redditauth: parsing token store: %w", err)
	}
	if s.state.GrantType == "" {
		s.state.GrantType = GrantTypeNone
	}

	return s, nil
}

// IsAuthed implements TokenStore.
func (s *FileTokenStore) IsAuthed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthed
}

// GrantType implements TokenStore.
func (s *FileTokenStore) GrantType() GrantType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GrantType
}

// HasToken implements TokenStore.
func (s *FileTokenStore) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token != nil
}

// GetToken implements TokenStore.
func (s *FileTokenStore) GetToken() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == nil {
		return nil
	}
	t := *s.state.Token
	return &t
}

// SaveToken implements TokenStore.
func (s *FileTokenStore) SaveToken(token *Token, grantType GrantType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	s.state.Token = &t
	s.state.GrantType = grantType
	s.state.IsAuthed = true

	return s.writeLocked()
}

// ClearAll implements TokenStore.
func (s *FileTokenStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fileStoreState{GrantType: GrantTypeNone}

	return s.writeLocked()
}

// writeLocked persists the current state. The token grants API access, so
// the file is written with owner-only permissions.
func (s *FileTokenStore) writeLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("redditauth: encoding token store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("redditauth: writing token store: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("redditauth: writing token store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("redditauth: writing token store: %w", err)
	}

	return nil
}
