package redditauth

import (
	"fmt"
	"net/http"
)

// BearerTransport is an http.RoundTripper that injects the bearer's
// Authorization header into outgoing API requests, refreshing the token
// first when it is due for renewal.
type BearerTransport struct {
	// Base is the underlying transport. If nil, http.DefaultTransport is
	// used.
	Base http.RoundTripper

	// Bearer provides the access token.
	Bearer *TokenBearer
}

// NewBearerTransport creates a BearerTransport around bearer. The base
// transport defaults to http.DefaultTransport.
func NewBearerTransport(bearer *TokenBearer, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &BearerTransport{
		Base:   base,
		Bearer: bearer,
	}
}

// RoundTrip implements http.RoundTripper. The token fetch respects the
// request context's cancellation and deadline.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Bearer == nil {
		return nil, fmt.Errorf("%w: bearer is required", ErrInvalidConfiguration)
	}

	header, err := t.Bearer.GetAuthorizationHeader(req.Context())
	if err != nil {
		return nil, err
	}
	if header == "" {
		return nil, ErrBearerRevoked
	}

	// Clone the request to avoid modifying the original.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", header)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(clone)
}
