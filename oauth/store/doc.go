// Package store persists OAuth token pairs across process restarts.
//
// A Store keeps the access/refresh token pair somewhere durable so an
// application only has to run the interactive authorization flow once.
// Three backends are provided: FileStore writes a JSON file with owner-only
// permissions, KeyringStore uses the operating system credential manager,
// and EnvStore reads a refresh token from an environment variable for
// headless deployments.
//
// PersistentTokenSource ties a Store to an authorization flow: it seeds the
// flow with the stored token on first use and writes rotated refresh tokens
// back as they arrive.
package store
