package redditauth

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// TokenBearer holds and manages the token for one authenticated session.
// It is the object application code calls to get a usable access token:
// a token due for renewal is refreshed synchronously before being handed
// out, and at most one refresh is in flight at a time. Once revoked, a
// bearer is terminal and returns no further tokens.
//
// All methods are safe for concurrent use; the read-check-refresh-write
// sequence and revocation are serialized on one mutex, so a caller arriving
// during an in-flight refresh waits for it instead of starting a duplicate.
type TokenBearer struct {
	mu      sync.Mutex
	flow    GrantFlow
	store   TokenStore
	logger  zerolog.Logger
	revoked bool
}

// BearerOption configures a TokenBearer.
type BearerOption func(*TokenBearer)

// WithLogger sets the logger the bearer records refresh and revoke events
// with. The default logger is disabled.
func WithLogger(logger zerolog.Logger) BearerOption {
	return func(b *TokenBearer) {
		b.logger = logger
	}
}

// NewTokenBearer creates a bearer for a freshly exchanged token and
// persists the token keyed by the flow's grant type. A nil token creates a
// revoked bearer and clears the store, so stale state from an earlier
// session cannot leak into this one.
func NewTokenBearer(flow GrantFlow, store TokenStore, token *Token, opts ...BearerOption) (*TokenBearer, error) {
	if flow == nil {
		return nil, fmt.Errorf("%w: grant flow is required", ErrInvalidConfiguration)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: token store is required", ErrInvalidConfiguration)
	}

	b := &TokenBearer{
		flow:   flow,
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if token == nil {
		b.revoked = true
		if err := store.ClearAll(); err != nil {
			return nil, err
		}
		return b, nil
	}

	if err := store.SaveToken(token, flow.GrantType()); err != nil {
		return nil, err
	}

	return b, nil
}

// HasSavedBearer reports whether store holds a completed session obtained
// with the same grant type as flow.
func HasSavedBearer(flow GrantFlow, store TokenStore) bool {
	if flow == nil || store == nil {
		return false
	}

	return store.IsAuthed() && store.HasToken() && store.GrantType() == flow.GrantType()
}

// SavedBearer reconstructs a bearer from a persisted session without
// re-running an authentication. It fails with ErrNoSavedBearer when the
// store is empty or was written by a different grant type.
func SavedBearer(flow GrantFlow, store TokenStore, opts ...BearerOption) (*TokenBearer, error) {
	if flow == nil {
		return nil, fmt.Errorf("%w: grant flow is required", ErrInvalidConfiguration)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: token store is required", ErrInvalidConfiguration)
	}
	if !HasSavedBearer(flow, store) {
		return nil, ErrNoSavedBearer
	}

	b := &TokenBearer{
		flow:   flow,
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// IsAuthed reports whether a token was ever saved for this session.
func (b *TokenBearer) IsAuthed() bool {
	return b.store.IsAuthed()
}

// GrantType returns the grant type the stored token was obtained with.
func (b *TokenBearer) GrantType() GrantType {
	return b.store.GrantType()
}

// IsRevoked reports whether the bearer has been revoked.
func (b *TokenBearer) IsRevoked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked
}

// GetToken returns the current token, refreshing it first when it is due
// for renewal. A revoked bearer returns nil with no error. A failed
// renewal is returned to the caller, never swallowed.
func (b *TokenBearer) GetToken(ctx context.Context) (*Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.revoked {
		return nil, nil
	}

	token := b.store.GetToken()
	if token != nil && token.ShouldRenew() {
		if err := b.refreshLocked(ctx); err != nil {
			return nil, err
		}
		token = b.store.GetToken()
	}

	return token, nil
}

// GetAccessToken returns the current access token, or "" when revoked.
func (b *TokenBearer) GetAccessToken(ctx context.Context) (string, error) {
	token, err := b.GetToken(ctx)
	if err != nil || token == nil {
		return "", err
	}
	return token.AccessToken, nil
}

// GetAuthorizationHeader returns the value to present in the Authorization
// header on API calls, or "" when revoked.
func (b *TokenBearer) GetAuthorizationHeader(ctx context.Context) (string, error) {
	token, err := b.GetToken(ctx)
	if err != nil || token == nil {
		return "", err
	}
	return token.AuthorizationHeader(), nil
}

// Refresh replaces the stored token with a renewed one. It is a no-op on a
// revoked bearer and fails with ErrNothingToRenew when no token is stored.
func (b *TokenBearer) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.revoked {
		return nil
	}

	return b.refreshLocked(ctx)
}

// refreshLocked runs the renew call and persists the result. The caller
// must hold b.mu. The renewed token carries forward the original refresh
// token and is saved keyed by the stored grant type, so a bearer
// reconstructed from a saved session keeps its recorded grant.
func (b *TokenBearer) refreshLocked(ctx context.Context) error {
	token := b.store.GetToken()
	if token == nil {
		return ErrNothingToRenew
	}

	fresh, err := b.flow.Renew(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenewalFailed, err)
	}

	renewed := token.Renewed(fresh)
	if err := b.store.SaveToken(renewed, b.store.GrantType()); err != nil {
		return fmt.Errorf("%w: %w", ErrRenewalFailed, err)
	}

	b.logger.Debug().
		Str("grant_type", string(b.store.GrantType())).
		Int64("expiration_time", renewed.ExpirationTime()).
		Msg("token renewed")

	return nil
}

// Revoke invalidates the token server-side and clears all persisted auth
// state. The transition is one-way: after a successful revoke the bearer
// is terminal, and calling Revoke again is a no-op. On failure the bearer
// stays usable and ErrRevocationFailed is returned.
func (b *TokenBearer) Revoke(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.revoked {
		return nil
	}

	token := b.store.GetToken()
	if token == nil {
		// Nothing to revoke remotely; finish the local transition.
		b.revoked = true
		return b.store.ClearAll()
	}

	if !b.flow.Revoke(ctx, token) {
		return ErrRevocationFailed
	}

	b.revoked = true
	b.logger.Debug().Str("grant_type", string(b.store.GrantType())).Msg("token revoked")

	return b.store.ClearAll()
}

// TokenSource adapts the bearer to golang.org/x/oauth2 so it can back
// oauth2.NewClient and oauth2.Transport. The source fails with
// ErrBearerRevoked once the bearer is revoked.
func (b *TokenBearer) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &bearerTokenSource{ctx: ctx, bearer: b}
}

type bearerTokenSource struct {
	ctx    context.Context
	bearer *TokenBearer
}

// Token implements oauth2.TokenSource.
func (s *bearerTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.bearer.GetToken(s.ctx)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrBearerRevoked
	}

	return token.OAuth2Token(), nil
}
