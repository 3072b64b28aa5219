package oauth

import "strings"

// Provider endpoints.
const (
	// AuthURL is where the athlete approves or denies the application.
	AuthURL = "https://www.strava.com/oauth/authorize"
	// TokenURL exchanges authorization codes and refresh tokens for access
	// tokens.
	TokenURL = "https://www.strava.com/oauth/token"
	// DeauthorizeURL revokes the application's access.
	DeauthorizeURL = "https://www.strava.com/oauth/deauthorize"
)

// Scopes understood by the provider. Multiple scopes are requested as one
// comma-separated string; see JoinScopes.
const (
	// ScopeRead grants access to public segments, routes, profile data, and
	// public activity data.
	ScopeRead = "read"
	// ScopeReadAll extends ScopeRead to private routes, segments, and events.
	ScopeReadAll = "read_all"
	// ScopeProfileReadAll grants access to the complete profile regardless of
	// visibility.
	ScopeProfileReadAll = "profile:read_all"
	// ScopeProfileWrite allows profile updates such as weight.
	ScopeProfileWrite = "profile:write"
	// ScopeActivityRead grants access to activities visible to Everyone or
	// Followers.
	ScopeActivityRead = "activity:read"
	// ScopeActivityReadAll extends ScopeActivityRead to private activities.
	ScopeActivityReadAll = "activity:read_all"
	// ScopeActivityWrite allows creating, updating, and uploading activities.
	ScopeActivityWrite = "activity:write"
)

// DefaultScope is requested when the caller does not name any scope.
const DefaultScope = ScopeRead

// JoinScopes combines scopes into the comma-separated form the provider
// expects in authorization URLs. Blank entries are dropped.
func JoinScopes(scopes ...string) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ",")
}
