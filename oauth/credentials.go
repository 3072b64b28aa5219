package oauth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openvelo/strava"
)

// Credentials holds an API application's identity plus the token pair issued
// to it. Token access is safe for concurrent use; construct with
// NewCredentials, the zero value is not usable.
type Credentials struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	Scope        string `validate:"required"`

	mu    sync.Mutex
	token Token
}

// Token is one issued access/refresh token pair. ExpiresAt is the absolute
// expiry instant of the access token; the zero value counts as already
// expired, so an unset pair never authenticates.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token's lifetime has passed.
func (t Token) Expired() bool {
	return !t.ExpiresAt.After(time.Now())
}

// Valid reports whether the token can authenticate a request right now.
func (t Token) Valid() bool {
	return t.AccessToken != "" && !t.Expired()
}

// NewCredentials builds Credentials for a registered API application. With no
// scopes the request defaults to DefaultScope; multiple scopes are joined the
// way the provider expects. Blank identifiers are rejected with an error
// naming the offending field.
func NewCredentials(clientID, clientSecret string, scopes ...string) (*Credentials, error) {
	c := &Credentials{
		ClientID:     strings.TrimSpace(clientID),
		ClientSecret: strings.TrimSpace(clientSecret),
		Scope:        JoinScopes(scopes...),
	}
	if len(scopes) == 0 {
		c.Scope = DefaultScope
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Credentials) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s must not be empty", strava.ErrInvalidArgument, lowerFirst(verrs[0].Field()))
	}
	return fmt.Errorf("%w: %v", strava.ErrInvalidArgument, err)
}

// lowerFirst maps a struct field name to its parameter spelling, ClientSecret
// to clientSecret.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Token returns a copy of the stored token pair.
func (c *Credentials) Token() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken replaces the stored token pair. A tok without a refresh token keeps
// the previous one, matching providers that omit the field when the refresh
// token is not rotated.
func (c *Credentials) SetToken(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.RefreshToken == "" {
		tok.RefreshToken = c.token.RefreshToken
	}
	c.token = tok
}

// ClearToken drops the stored token pair, forcing a fresh authorization.
func (c *Credentials) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = Token{}
}

// Authenticated reports whether a currently valid access token is stored.
func (c *Credentials) Authenticated() bool {
	return c.Token().Valid()
}
