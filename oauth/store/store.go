package store

import (
	"context"
	"errors"

	"github.com/openvelo/strava/oauth"
)

// ErrNotFound reports that the backend holds no token yet. Callers usually
// treat it as a signal to run the interactive authorization flow.
var ErrNotFound = errors.New("store: no token stored")

// Store loads and saves a token pair.
type Store interface {
	// Load returns the stored token pair, or ErrNotFound when nothing has
	// been stored yet.
	Load(ctx context.Context) (oauth.Token, error)

	// Save persists the token pair, replacing any previous one.
	Save(ctx context.Context, tok oauth.Token) error
}
