package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openvelo/strava/oauth"
)

// ErrReadOnly reports a Save against a backend that cannot be written.
var ErrReadOnly = errors.New("store: backend is read-only")

// EnvStore reads a refresh token from an environment variable. It is meant
// for headless deployments where the refresh token is provisioned out of
// band; the access token is obtained by refreshing on first use.
type EnvStore struct {
	key string
}

var _ Store = (*EnvStore)(nil)

// NewEnvStore returns a store reading the environment variable key. The
// variable must be set when the store is created.
func NewEnvStore(key string) (*EnvStore, error) {
	if key == "" {
		return nil, errors.New("store: environment variable name must not be empty")
	}
	if _, ok := os.LookupEnv(key); !ok {
		return nil, fmt.Errorf("store: environment variable %s is not set", key)
	}
	return &EnvStore{key: key}, nil
}

// Load returns a token pair holding only the refresh token from the
// environment. The pair reports as expired so the first use triggers a
// refresh.
func (s *EnvStore) Load(ctx context.Context) (oauth.Token, error) {
	if err := ctx.Err(); err != nil {
		return oauth.Token{}, err
	}
	v := os.Getenv(s.key)
	if v == "" {
		return oauth.Token{}, fmt.Errorf("store: environment variable %s is empty", s.key)
	}
	return oauth.Token{RefreshToken: v}, nil
}

// Save always fails; environment variables cannot be updated for the parent
// process.
func (s *EnvStore) Save(ctx context.Context, tok oauth.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: environment variable %s", ErrReadOnly, s.key)
}
