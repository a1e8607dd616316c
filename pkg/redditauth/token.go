package redditauth

import (
	"time"

	"golang.org/x/oauth2"
)

// renewLeewaySecs is how long before actual expiry a token is considered
// due for renewal. Reddit access tokens last an hour; treating them as
// usable for 55 minutes avoids handing out a token that expires mid-request.
const renewLeewaySecs = 300

// Token represents one issued bearer token together with its expiry
// bookkeeping. Tokens are immutable; a refresh replaces the stored token
// wholesale via Renewed, never mutates it in place.
type Token struct {
	// AccessToken is presented on API calls as bearer authentication.
	AccessToken string `json:"access_token"`

	// RefreshToken is used to obtain new access tokens when they expire.
	// Userless and script grants do not return one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is the string "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime of the access token in seconds.
	ExpiresIn int `json:"expires_in"`

	// CreatedTime is the unix time the token was issued, used together
	// with ExpiresIn to determine the expiration time. It is recorded
	// locally when the token response is parsed.
	CreatedTime int64 `json:"created_time"`

	// Scopes is the space-separated scope string granted to this token.
	Scopes string `json:"scope"`
}

// ExpirationTime returns the unix time at which the access token expires.
func (t *Token) ExpirationTime() int64 {
	return t.CreatedTime + int64(t.ExpiresIn)
}

// ShouldRenew returns true when the token is within five minutes of expiry.
func (t *Token) ShouldRenew() bool {
	return time.Now().Unix()+renewLeewaySecs >= t.ExpirationTime()
}

// Renewed returns the token that results from applying a renewal response
// to t. The server does not reissue a refresh token on renewal, so the
// original refresh token is carried forward while every other field is
// taken from fresh.
func (t *Token) Renewed(fresh *Token) *Token {
	return &Token{
		AccessToken:  fresh.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    fresh.TokenType,
		ExpiresIn:    fresh.ExpiresIn,
		CreatedTime:  fresh.CreatedTime,
		Scopes:       fresh.Scopes,
	}
}

// AuthorizationHeader returns the value presented in the Authorization
// header on API calls.
func (t *Token) AuthorizationHeader() string {
	return "bearer " + t.AccessToken
}

// OAuth2Token converts t to a golang.org/x/oauth2 token so it can be used
// with oauth2.NewClient and oauth2.Transport.
func (t *Token) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       time.Unix(t.ExpirationTime(), 0),
	}
}
