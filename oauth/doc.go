// Package oauth implements the provider's authorization code flow for native
// and server-side applications.
//
// A Flow ties application Credentials to a redirect URL and walks the three
// legs of the dance: AuthCodeURL builds the approval link, WaitForCode runs a
// single-shot local listener for the redirect, and Exchange trades the code
// for a token pair. Refresh renews an expired pair, and TokenSource adapts the
// whole cycle to oauth2.TokenSource for use with the API client.
//
// Exchange and Refresh return their result instead of mutating the
// credentials, so callers decide what to persist. The combined Authorize
// helper stores the result directly for the common case.
package oauth
