package redditauth

import "errors"

var (
	// ErrInvalidConfiguration indicates a flow, client or bearer was
	// constructed or used with missing or invalid settings.
	ErrInvalidConfiguration = errors.New("redditauth: invalid configuration")

	// ErrMissingState indicates the callback url carries no state parameter.
	ErrMissingState = errors.New("redditauth: state parameter missing from callback url")

	// ErrEmptyState indicates the callback url carries an empty state value.
	ErrEmptyState = errors.New("redditauth: state parameter is empty")

	// ErrStateMismatch indicates the callback state does not match the one
	// issued with the authorize url.
	ErrStateMismatch = errors.New("redditauth: state parameter does not match the issued state")

	// ErrMissingCode indicates no authorization code could be extracted
	// from the callback url.
	ErrMissingCode = errors.New("redditauth: authorization code missing from callback url")

	// ErrAccessDenied indicates the user chose not to grant the requested
	// permissions.
	ErrAccessDenied = errors.New("redditauth: user denied access")

	// ErrUnsupportedResponseType indicates an invalid response_type
	// parameter in the initial authorization request.
	ErrUnsupportedResponseType = errors.New("redditauth: unsupported response type")

	// ErrInvalidScope indicates an invalid scope parameter in the initial
	// authorization request.
	ErrInvalidScope = errors.New("redditauth: invalid scope")

	// ErrInvalidRequest indicates a malformed authorization request.
	ErrInvalidRequest = errors.New("redditauth: invalid authorization request")

	// ErrMissingRefreshToken indicates a renewal was attempted on a token
	// that carries no refresh token.
	ErrMissingRefreshToken = errors.New("redditauth: token has no refresh token")

	// ErrTokenExchangeFailed indicates a token exchange, fetch or renewal
	// request did not succeed.
	ErrTokenExchangeFailed = errors.New("redditauth: token exchange failed")

	// ErrRevocationFailed indicates a revoke request did not succeed.
	ErrRevocationFailed = errors.New("redditauth: revocation failed")

	// ErrNothingToRenew indicates a refresh was requested but no token is
	// stored.
	ErrNothingToRenew = errors.New("redditauth: no stored token to renew")

	// ErrRenewalFailed indicates the bearer could not replace the stored
	// token with a renewed one.
	ErrRenewalFailed = errors.New("redditauth: token renewal failed")

	// ErrBearerRevoked indicates a token was requested from a revoked
	// bearer.
	ErrBearerRevoked = errors.New("redditauth: bearer has been revoked")

	// ErrNoSavedBearer indicates no persisted session matched the flow.
	ErrNoSavedBearer = errors.New("redditauth: no saved bearer for this grant type")
)

// OAuth2Error carries an error code reported by the authorization server
// that has no dedicated sentinel.
type OAuth2Error struct {
	// Code is the raw error code returned by the server.
	Code string
}

// Error implements the error interface.
func (e *OAuth2Error) Error() string {
	return "redditauth: the reddit api returned the error: " + e.Code
}

// mapAuthorizeError maps a provider-reported error code from the
// authorization redirect to a sentinel error. Unrecognized codes are wrapped
// in an OAuth2Error so callers can still inspect the raw value.
func mapAuthorizeError(code string) error {
	switch code {
	case "access_denied":
		return ErrAccessDenied
	case "unsupported_response_type":
		return ErrUnsupportedResponseType
	case "invalid_scope":
		return ErrInvalidScope
	case "invalid_request":
		return ErrInvalidRequest
	default:
		return &OAuth2Error{Code: code}
	}
}
