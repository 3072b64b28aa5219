package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/openvelo/strava/oauth"
)

// KeyringStore keeps the token pair in the operating system credential
// manager, encoded as a JSON string.
type KeyringStore struct {
	service string
	user    string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore returns a store addressing the keyring entry for the given
// service and user.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, errors.New("store: keyring service must not be empty")
	}
	if user == "" {
		return nil, errors.New("store: keyring user must not be empty")
	}
	return &KeyringStore{service: service, user: user}, nil
}

// Load fetches and decodes the keyring entry.
func (s *KeyringStore) Load(ctx context.Context) (oauth.Token, error) {
	if err := ctx.Err(); err != nil {
		return oauth.Token{}, err
	}
	secret, err := keyring.Get(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return oauth.Token{}, fmt.Errorf("%w: keyring %s/%s", ErrNotFound, s.service, s.user)
	}
	if err != nil {
		return oauth.Token{}, fmt.Errorf("store: reading keyring: %w", err)
	}
	var tok oauth.Token
	if err := json.Unmarshal([]byte(secret), &tok); err != nil {
		return oauth.Token{}, fmt.Errorf("store: decoding keyring entry: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return oauth.Token{}, fmt.Errorf("store: keyring entry %s/%s holds no token", s.service, s.user)
	}
	return tok, nil
}

// Save encodes the token pair and writes it to the keyring.
func (s *KeyringStore) Save(ctx context.Context, tok oauth.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("store: encoding token: %w", err)
	}
	if err := keyring.Set(s.service, s.user, string(data)); err != nil {
		return fmt.Errorf("store: writing keyring: %w", err)
	}
	return nil
}
