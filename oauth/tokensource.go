package oauth

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// refreshMargin is how long before expiry a token is refreshed proactively, so
// requests already in flight do not race the expiry instant.
const refreshMargin = 5 * time.Minute

// tokenSource adapts a Flow to oauth2.TokenSource.
type tokenSource struct {
	ctx   context.Context
	flow  *Flow
	group singleflight.Group
}

// Compile-time check that tokenSource implements oauth2.TokenSource.
var _ oauth2.TokenSource = (*tokenSource)(nil)

// TokenSource returns an oauth2.TokenSource backed by the flow's credentials.
// Tokens are served from the credentials while fresh and pass through Refresh
// once within refreshMargin of expiry; concurrent callers share a single
// refresh. Rotated tokens are stored back on the credentials.
//
// ctx is held for the lifetime of the source because oauth2.TokenSource.Token
// carries no context parameter.
func (f *Flow) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, flow: f}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	if tok := ts.flow.creds.Token(); fresh(tok) {
		return oauthToken(tok), nil
	}

	v, err, _ := ts.group.Do("refresh", func() (any, error) {
		// Another caller may have refreshed while this one waited.
		if tok := ts.flow.creds.Token(); fresh(tok) {
			return oauthToken(tok), nil
		}

		tok, err := ts.flow.Refresh(ts.ctx)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, ErrIncompleteToken
		}
		ts.flow.creds.SetToken(*tok)
		return oauthToken(*tok), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

func fresh(tok Token) bool {
	return tok.AccessToken != "" && time.Until(tok.ExpiresAt) > refreshMargin
}

func oauthToken(tok Token) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.ExpiresAt,
	}
}
