package oauth

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/openvelo/strava"
)

func TestTokenSourceServesFreshToken(t *testing.T) {
	var calls atomic.Int32
	f, creds, mux := newTestFlow(t, "http://localhost:8080/callback")
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	creds.SetToken(Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)})

	tok, err := f.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "a1", tok.AccessToken)
	assert.Zero(t, calls.Load(), "a fresh token is served without a refresh call")
}

func TestTokenSourceRefreshesNearExpiry(t *testing.T) {
	var calls atomic.Int32
	f, creds, mux := newTestFlow(t, "http://localhost:8080/callback")
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "r1", r.PostForm.Get("refresh_token"))
		w.Write([]byte(`{"access_token": "a2", "refresh_token": "r2", "expires_at": ` + expiresIn(t, 6*time.Hour) + `}`))
	})
	// Still valid but inside the refresh margin.
	creds.SetToken(Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Minute)})

	tok, err := f.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "a2", tok.AccessToken)
	assert.Equal(t, int32(1), calls.Load())

	stored := creds.Token()
	assert.Equal(t, "a2", stored.AccessToken, "rotated token is written back")
	assert.Equal(t, "r2", stored.RefreshToken)
}

func TestTokenSourceDeduplicatesConcurrentRefreshes(t *testing.T) {
	var calls atomic.Int32
	f, creds, mux := newTestFlow(t, "http://localhost:8080/callback")
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"access_token": "a2", "refresh_token": "r2", "expires_at": ` + expiresIn(t, 6*time.Hour) + `}`))
	})
	creds.SetToken(Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(-time.Minute)})

	src := f.TokenSource(context.Background())

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			tok, err := src.Token()
			if err != nil {
				return err
			}
			assert.Equal(t, "a2", tok.AccessToken)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), calls.Load(), "concurrent callers share one refresh")
}

func TestTokenSourceWithoutRefreshToken(t *testing.T) {
	f, _, _ := newTestFlow(t, "http://localhost:8080/callback")

	_, err := f.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, strava.ErrPreconditionFailed)
}

func TestTokenSourceIncompleteRefresh(t *testing.T) {
	f, creds, mux := newTestFlow(t, "http://localhost:8080/callback")
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "a2"}`))
	})
	creds.SetToken(Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(-time.Minute)})

	_, err := f.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, ErrIncompleteToken)
}

// expiresIn formats an absolute expiry the given duration from now, as the
// provider's Unix-seconds wire format.
func expiresIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return strconv.FormatInt(time.Now().Add(d).Unix(), 10)
}
