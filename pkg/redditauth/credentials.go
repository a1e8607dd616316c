package redditauth

// ApplicationCredentials identify an installed app using the interactive
// authorization code flow.
type ApplicationCredentials struct {
	// ClientID is assigned when creating an app at
	// https://www.reddit.com/prefs/apps.
	ClientID string

	// RedirectURL is the url the browser is redirected to after the user
	// grants or denies access. It must match the one registered on the
	// reddit app console.
	RedirectURL string
}

// UserlessCredentials identify an app using the application-only flow.
type UserlessCredentials struct {
	// ClientID is assigned when creating an app at
	// https://www.reddit.com/prefs/apps.
	ClientID string

	// DeviceID is a stable per-installation identifier, required because
	// there is no user reference. When empty, a random UUID is generated
	// at flow construction.
	DeviceID string
}

// ScriptCredentials identify a personal-use script using the resource owner
// password flow.
type ScriptCredentials struct {
	// Username and Password are the login info of the account the script
	// acts as.
	Username string
	Password string

	// ClientID and ClientSecret are assigned when creating a script app at
	// https://www.reddit.com/prefs/apps.
	ClientID     string
	ClientSecret string
}
