package redditauth

import "sync"

// TokenStore persists the current token and the active grant type on
// behalf of a TokenBearer. Implementations must keep the "ever
// authenticated" flag distinct from "currently has a token": IsAuthed stays
// true after the first save until ClearAll.
type TokenStore interface {
	// IsAuthed reports whether a token was ever saved.
	IsAuthed() bool

	// GrantType returns the grant type the stored token was obtained with,
	// or GrantTypeNone when the store is empty.
	GrantType() GrantType

	// HasToken reports whether a token is currently stored.
	HasToken() bool

	// GetToken returns the stored token, or nil when the store is empty.
	GetToken() *Token

	// SaveToken replaces the stored token and grant type.
	SaveToken(token *Token, grantType GrantType) error

	// ClearAll removes every piece of persisted auth state, including the
	// authed flag.
	ClearAll() error
}

// MemoryTokenStore is an in-process TokenStore. It is safe for concurrent
// use and is the store of choice for tests and short-lived programs that do
// not need the token to survive a restart.
type MemoryTokenStore struct {
	mu        sync.RWMutex
	authed    bool
	grantType GrantType
	token     *Token
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{grantType: GrantTypeNone}
}

// IsAuthed implements TokenStore.
func (s *MemoryTokenStore) IsAuthed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// GrantType implements TokenStore.
func (s *MemoryTokenStore) GrantType() GrantType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grantType
}

// HasToken implements TokenStore.
func (s *MemoryTokenStore) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// GetToken implements TokenStore.
func (s *MemoryTokenStore) GetToken() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// SaveToken implements TokenStore.
func (s *MemoryTokenStore) SaveToken(token *Token, grantType GrantType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *token
	s.token = &t
	s.grantType = grantType
	s.authed = true
	return nil
}

// ClearAll implements TokenStore.
func (s *MemoryTokenStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	s.grantType = GrantTypeNone
	s.authed = false
	return nil
}
