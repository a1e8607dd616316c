package redditauth

import (
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GrantFlow encapsulates the per-grant-type protocol logic for turning
// credentials into tokens. The set of implementations is closed: exactly
// InstalledAppFlow, UserlessFlow and ScriptFlow.
type GrantFlow interface {
	// GrantType identifies the grant this flow implements.
	GrantType() GrantType

	// Renew obtains a replacement for token. The interactive flow
	// exchanges the refresh token; userless and script flows re-run the
	// credential exchange, since their tokens carry no refresh token.
	Renew(ctx context.Context, token *Token) (*Token, error)

	// Revoke invalidates token server-side. Revocation is best-effort
	// cleanup: failures are reported as false, never as an error.
	Revoke(ctx context.Context, token *Token) bool

	// grantFlow restricts implementations to this package.
	grantFlow()
}

// Callback query values are extracted by pattern rather than full url
// parsing, to tolerate malformed encodings in the redirect.
var (
	callbackCodeRe  = regexp.MustCompile(`code=([A-Za-z0-9_-]+)`)
	callbackStateRe = regexp.MustCompile(`state=([A-Za-z0-9_-]*)`)
	callbackErrorRe = regexp.MustCompile(`error=([A-Za-z0-9_-]+)`)
)

const stateLength = 32

// generateState produces the random CSRF state value embedded in an
// authorize url.
func generateState() (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	buf := make([]byte, stateLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("redditauth: generating state: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}

// InstalledAppConfig configures the interactive authorization code flow.
type InstalledAppConfig struct {
	// Credentials identify the installed app.
	Credentials ApplicationCredentials

	// Scopes are the permissions the token will be granted. Should be as
	// tight as possible; the full list is served by AuthTransport.Scopes.
	Scopes []string

	// Transport executes the remote OAuth operations.
	Transport AuthTransport

	// Logger logs flow events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// InstalledAppFlow implements the user-interactive authorization code flow.
// One authorization attempt runs ProvideAuthorizeURL, an external redirect
// capture, and ExchangeCallback; a rejected attempt must be restarted from
// ProvideAuthorizeURL, which pins a fresh state value.
type InstalledAppFlow struct {
	creds     ApplicationCredentials
	scopes    string
	transport AuthTransport
	logger    zerolog.Logger

	mu    sync.Mutex
	state string
}

// NewInstalledAppFlow validates cfg and creates the interactive flow.
func NewInstalledAppFlow(cfg InstalledAppConfig) (*InstalledAppFlow, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.ClientID) == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.RedirectURL) == "" {
		return nil, fmt.Errorf("%w: redirect url is required", ErrInvalidConfiguration)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &InstalledAppFlow{
		creds:     cfg.Credentials,
		scopes:    joinScopes(cfg.Scopes),
		transport: cfg.Transport,
		logger:    logger,
	}, nil
}

// GrantType implements GrantFlow.
func (f *InstalledAppFlow) GrantType() GrantType { return GrantTypeInstalledApp }

func (f *InstalledAppFlow) grantFlow() {}

// ProvideAuthorizeURL builds the authorization url to load in a browser or
// webview. Every call pins a freshly generated state value; the callback
// handed to ExchangeCallback must echo it back.
func (f *InstalledAppFlow) ProvideAuthorizeURL() (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.state = state
	f.mu.Unlock()

	params := []string{
		"client_id=" + f.creds.ClientID,
		"response_type=code",
		"state=" + state,
		"redirect_uri=" + f.creds.RedirectURL,
		"duration=permanent",
		"scope=" + f.scopes,
	}

	return f.transport.AuthorizeURL() + "?" + strings.Join(params, "&"), nil
}

// IsRedirectedURL reports whether url is the redirect the external browser
// component should hand back for processing by ExchangeCallback.
func (f *InstalledAppFlow) IsRedirectedURL(url string) (bool, error) {
	if url == "" {
		return false, fmt.Errorf("%w: callback url is empty", ErrInvalidConfiguration)
	}
	if f.creds.RedirectURL == "" {
		return false, fmt.Errorf("%w: redirect url was not provided", ErrInvalidConfiguration)
	}

	return strings.HasPrefix(url, f.creds.RedirectURL), nil
}

// ExchangeCallback validates the callback url captured from the redirect
// and exchanges its authorization code for a token. A server-reported
// error, a missing, empty or mismatched state, or a missing code each
// reject the attempt; the caller must restart from ProvideAuthorizeURL.
func (f *InstalledAppFlow) ExchangeCallback(ctx context.Context, url string) (*Token, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: callback url is empty", ErrInvalidConfiguration)
	}

	if strings.Contains(url, "error") {
		errValue := ""
		if m := callbackErrorRe.FindStringSubmatch(url); m != nil {
			errValue = m[1]
		}
		err := mapAuthorizeError(errValue)
		f.logger.Debug().Str("error", errValue).Msg("authorization rejected by server")
		return nil, err
	}

	if !strings.Contains(url, "state") {
		return nil, ErrMissingState
	}

	state := ""
	if m := callbackStateRe.FindStringSubmatch(url); m != nil {
		state = m[1]
	}
	if state == "" {
		return nil, ErrEmptyState
	}

	f.mu.Lock()
	pinned := f.state
	f.mu.Unlock()
	if state != pinned {
		return nil, ErrStateMismatch
	}

	code := ""
	if m := callbackCodeRe.FindStringSubmatch(url); m != nil {
		code = m[1]
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	return f.transport.ExchangeAuthorizationCode(ctx, basicAuth(f.creds.ClientID, ""), code, f.creds.RedirectURL)
}

// Renew implements GrantFlow. It fails with ErrMissingRefreshToken when the
// token carries no refresh token; that condition is fatal for the call, not
// retried.
func (f *InstalledAppFlow) Renew(ctx context.Context, token *Token) (*Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	return f.transport.RenewToken(ctx, basicAuth(f.creds.ClientID, ""), token.RefreshToken)
}

// Revoke implements GrantFlow. The interactive flow revokes the refresh
// token, which invalidates the access token with it.
func (f *InstalledAppFlow) Revoke(ctx context.Context, token *Token) bool {
	if token == nil || token.RefreshToken == "" {
		return false
	}

	err := f.transport.Revoke(ctx, basicAuth(f.creds.ClientID, ""), token.RefreshToken, "refresh_token")
	if err != nil {
		f.logger.Warn().Err(err).Msg("refresh token revocation failed")
		return false
	}

	return true
}

// UserlessConfig configures the application-only flow.
type UserlessConfig struct {
	// Credentials identify the app. A missing DeviceID is generated.
	Credentials UserlessCredentials

	// Transport executes the remote OAuth operations.
	Transport AuthTransport

	// Logger logs flow events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// UserlessFlow implements the application-only flow without a user context.
type UserlessFlow struct {
	creds     UserlessCredentials
	transport AuthTransport
	logger    zerolog.Logger
}

// NewUserlessFlow validates cfg and creates the userless flow. When the
// credentials carry no device id, a random UUID is generated; callers that
// want a stable per-installation id should persist it via DeviceID.
func NewUserlessFlow(cfg UserlessConfig) (*UserlessFlow, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.ClientID) == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidConfiguration)
	}

	creds := cfg.Credentials
	if creds.DeviceID == "" {
		creds.DeviceID = uuid.NewString()
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &UserlessFlow{
		creds:     creds,
		transport: cfg.Transport,
		logger:    logger,
	}, nil
}

// GrantType implements GrantFlow.
func (f *UserlessFlow) GrantType() GrantType { return GrantTypeUserless }

func (f *UserlessFlow) grantFlow() {}

// DeviceID returns the device identifier this flow authenticates with.
func (f *UserlessFlow) DeviceID() string { return f.creds.DeviceID }

// FetchToken obtains a token with the device grant.
func (f *UserlessFlow) FetchToken(ctx context.Context) (*Token, error) {
	return f.transport.FetchUserlessToken(ctx, basicAuth(f.creds.ClientID, ""), f.creds.DeviceID)
}

// Renew implements GrantFlow. Userless tokens carry no refresh token, so
// renewal re-runs the credential exchange.
func (f *UserlessFlow) Renew(ctx context.Context, _ *Token) (*Token, error) {
	return f.FetchToken(ctx)
}

// Revoke implements GrantFlow.
func (f *UserlessFlow) Revoke(ctx context.Context, token *Token) bool {
	if token == nil || token.AccessToken == "" {
		return false
	}

	err := f.transport.Revoke(ctx, basicAuth(f.creds.ClientID, ""), token.AccessToken, "access_token")
	if err != nil {
		f.logger.Warn().Err(err).Msg("access token revocation failed")
		return false
	}

	return true
}

// ScriptConfig configures the resource owner password flow.
type ScriptConfig struct {
	// Credentials identify the script app and the account it acts as.
	Credentials ScriptCredentials

	// Transport executes the remote OAuth operations.
	Transport AuthTransport

	// Logger logs flow events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// ScriptFlow implements the resource owner password flow.
type ScriptFlow struct {
	creds     ScriptCredentials
	transport AuthTransport
	logger    zerolog.Logger
}

// NewScriptFlow validates cfg and creates the script flow.
func NewScriptFlow(cfg ScriptConfig) (*ScriptFlow, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.ClientID) == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.ClientSecret) == "" {
		return nil, fmt.Errorf("%w: client secret is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(cfg.Credentials.Username) == "" || cfg.Credentials.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidConfiguration)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &ScriptFlow{
		creds:     cfg.Credentials,
		transport: cfg.Transport,
		logger:    logger,
	}, nil
}

// GrantType implements GrantFlow.
func (f *ScriptFlow) GrantType() GrantType { return GrantTypeScript }

func (f *ScriptFlow) grantFlow() {}

// FetchToken obtains a token with the password grant.
func (f *ScriptFlow) FetchToken(ctx context.Context) (*Token, error) {
	return f.transport.FetchScriptToken(
		ctx,
		basicAuth(f.creds.ClientID, f.creds.ClientSecret),
		f.creds.Username,
		f.creds.Password,
	)
}

// Renew implements GrantFlow. Script tokens carry no refresh token, so
// renewal re-runs the credential exchange.
func (f *ScriptFlow) Renew(ctx context.Context, _ *Token) (*Token, error) {
	return f.FetchToken(ctx)
}

// Revoke implements GrantFlow. The script flow is the only one that
// includes the client secret in the revoke call.
func (f *ScriptFlow) Revoke(ctx context.Context, token *Token) bool {
	if token == nil || token.AccessToken == "" {
		return false
	}

	err := f.transport.Revoke(ctx, basicAuth(f.creds.ClientID, f.creds.ClientSecret), token.AccessToken, "access_token")
	if err != nil {
		f.logger.Warn().Err(err).Msg("access token revocation failed")
		return false
	}

	return true
}
