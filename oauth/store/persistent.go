package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/openvelo/strava"
	"github.com/openvelo/strava/oauth"
)

// PersistentTokenSource wraps an authorization flow's token source and keeps
// a Store in sync with it. On first use it seeds the flow with the stored
// token pair; afterwards every rotated refresh token is written back.
//
// A failed write is logged and does not interrupt token delivery, so a
// read-only backend such as EnvStore still works for the process lifetime.
type PersistentTokenSource struct {
	flow   *oauth.Flow
	store  Store
	logger *slog.Logger

	source func() (oauth2.TokenSource, error)

	lastRefreshToken atomic.Pointer[string]
	writeMu          sync.Mutex
}

var _ oauth2.TokenSource = (*PersistentTokenSource)(nil)

// PersistentOption configures a PersistentTokenSource.
type PersistentOption func(*PersistentTokenSource)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *slog.Logger) PersistentOption {
	return func(p *PersistentTokenSource) {
		p.logger = logger
	}
}

// NewPersistentTokenSource returns a token source backed by flow and st.
func NewPersistentTokenSource(flow *oauth.Flow, st Store, opts ...PersistentOption) (*PersistentTokenSource, error) {
	if flow == nil {
		return nil, fmt.Errorf("%w: flow must not be nil", strava.ErrInvalidArgument)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: store must not be nil", strava.ErrInvalidArgument)
	}
	p := &PersistentTokenSource{flow: flow, store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.source = sync.OnceValues(p.initSource)
	return p, nil
}

// initSource loads the stored token, seeds the flow's credentials when they
// hold nothing yet, and builds the refreshing token source. It runs once.
func (p *PersistentTokenSource) initSource() (oauth2.TokenSource, error) {
	ctx := context.Background()
	tok, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		// Nothing stored yet. The flow may already hold a token from an
		// interactive authorization; its refresh token gets persisted on
		// the first Token call.
	case err != nil:
		return nil, fmt.Errorf("store: loading token: %w", err)
	default:
		if !p.flow.Credentials().Authenticated() {
			p.flow.Credentials().SetToken(tok)
		}
		last := tok.RefreshToken
		p.lastRefreshToken.Store(&last)
	}
	return p.flow.TokenSource(ctx), nil
}

// Token returns a valid access token, persisting the pair whenever the
// refresh token rotates.
func (p *PersistentTokenSource) Token() (*oauth2.Token, error) {
	src, err := p.source()
	if err != nil {
		return nil, err
	}
	tok, err := src.Token()
	if err != nil {
		return nil, err
	}
	p.persist(tok)
	return tok, nil
}

func (p *PersistentTokenSource) persist(tok *oauth2.Token) {
	if tok.RefreshToken == "" {
		return
	}
	if last := p.lastRefreshToken.Load(); last != nil && *last == tok.RefreshToken {
		return
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if last := p.lastRefreshToken.Load(); last != nil && *last == tok.RefreshToken {
		return
	}
	ctx := context.Background()
	err := p.store.Save(ctx, oauth.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to persist rotated token", "error", err)
		return
	}
	rt := tok.RefreshToken
	p.lastRefreshToken.Store(&rt)
}
