package redditauth

import "strings"

// Scope describes one permission the reddit API exposes, as listed by the
// /api/v1/scopes endpoint.
type Scope struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// joinScopes joins scope identifiers with single spaces, the only
// serialization used on the wire.
func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// SplitScopes splits a space-separated scope string into identifiers,
// dropping empty entries.
func SplitScopes(scopes string) []string {
	return strings.Fields(scopes)
}
