// Package redditauth implements the Reddit OAuth 2.0 token lifecycle:
// acquiring, refreshing and revoking bearer tokens for the three grant
// flows the Reddit API supports.
//
// # Supported Flows
//
//   - Installed App: user-interactive authorization code flow driven
//     through a browser or webview redirect
//   - Userless: application-only flow keyed by a per-installation device ID
//   - Script: resource owner password flow for personal-use scripts
//
// Each flow is a GrantFlow implementation constructed from a validated
// per-grant configuration. A successful authentication produces a Token,
// which is wrapped together with a TokenStore in a TokenBearer. The bearer
// is the long-lived handle application code calls to obtain a usable access
// token; it refreshes the token transparently before expiry and guarantees
// at most one in-flight refresh at a time.
//
// Example - Script flow:
//
//	transport, err := redditauth.NewClient(redditauth.ClientConfig{
//	    UserAgent: "linux:com.example.bot:v1.0 (by /u/example)",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	flow, err := redditauth.NewScriptFlow(redditauth.ScriptConfig{
//	    Credentials: redditauth.ScriptCredentials{
//	        Username:     "username",
//	        Password:     "password",
//	        ClientID:     "client-id",
//	        ClientSecret: "client-secret",
//	    },
//	    Transport: transport,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := flow.FetchToken(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bearer, err := redditauth.NewTokenBearer(flow, redditauth.NewMemoryTokenStore(), token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	header, err := bearer.GetAuthorizationHeader(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(header)
//
// The interactive flow additionally exposes ProvideAuthorizeURL,
// IsRedirectedURL and ExchangeCallback. The authorize URL embeds a fresh
// CSRF state value on every call; the callback URL reported back by the
// browser component is validated against that state before the code is
// exchanged for a token.
package redditauth
