package redditauth

// GrantType identifies the OAuth 2.0 mechanism used to obtain a token.
type GrantType string

const (
	// GrantTypeInstalledApp uses the user-interactive authorization code flow.
	GrantTypeInstalledApp GrantType = "INSTALLED_APP"

	// GrantTypeUserless uses the application-only flow without a user context.
	GrantTypeUserless GrantType = "USERLESS"

	// GrantTypeScript uses the resource owner password flow.
	GrantTypeScript GrantType = "SCRIPT"

	// GrantTypeNone marks absent or invalid auth state. It is never a
	// legitimate operating state; observing it outside an empty store is a
	// logic error.
	GrantTypeNone GrantType = "NONE"
)

// Valid returns true if g is one of the three operating grant types.
func (g GrantType) Valid() bool {
	switch g {
	case GrantTypeInstalledApp, GrantTypeUserless, GrantTypeScript:
		return true
	}
	return false
}
