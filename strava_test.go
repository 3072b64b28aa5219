package strava

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testToken = "test-token"

// newTestClient returns a client wired to a local test server and the mux to
// register handlers on.
func newTestClient(t *testing.T, opts ...ClientOption) (*Client, *http.ServeMux) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{
		WithAccessToken(testToken),
		WithBaseURL(srv.URL + "/api/v3"),
	}, opts...)
	c, err := NewClient(opts...)
	require.NoError(t, err)
	return c, mux
}

func requireAuth(t *testing.T, r *http.Request) {
	t.Helper()
	require.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
}

func TestNewClientRequiresTokenSource(t *testing.T) {
	_, err := NewClient()
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewClientRejectsBlankToken(t *testing.T) {
	_, err := NewClient(WithAccessToken("  "))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWithBaseURLAddsTrailingSlash(t *testing.T) {
	c, err := NewClient(WithAccessToken(testToken), WithBaseURL("https://example.com/api/v3"))
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/", c.baseURL.Path)
}

func TestRequestCarriesAuthAndUserAgent(t *testing.T) {
	c, mux := newTestClient(t)

	var got http.Header
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"id": 7}`))
	})

	_, err := c.Athletes.GetAuthenticated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+testToken, got.Get("Authorization"))
	assert.Equal(t, userAgent, got.Get("User-Agent"))
}

func TestDoRejectsEmptyAccessToken(t *testing.T) {
	c, _ := newTestClient(t, WithTokenSource(staticToken("")))

	_, err := c.Athletes.GetAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "access token")
}

func TestDoClassifiesErrorStatus(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Rate Limit Exceeded"}`))
	})

	_, err := c.Athletes.GetAuthenticated(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Rate Limit Exceeded")
	assert.True(t, apiErr.RateLimited())
	assert.False(t, apiErr.Unauthorized())
}

func TestDoReportsEmptyBody(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Athletes.GetAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDoReportsMalformedJSON(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": `))
	})

	_, err := c.Athletes.GetAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDoReportsTimeout(t *testing.T) {
	c, mux := newTestClient(t, WithHTTPClient(&http.Client{Timeout: 30 * time.Millisecond}))
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})

	_, err := c.Athletes.GetAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
}

func TestDoReportsContextDeadline(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.Athletes.GetAuthenticated(ctx)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestListOptionsValues(t *testing.T) {
	var nilOpt *ListOptions
	assert.Empty(t, nilOpt.values())

	q := (&ListOptions{Page: 3, PerPage: 50}).values()
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "50", q.Get("per_page"))
}

// staticToken is a token source that never refreshes. The empty value is used
// to exercise blank-token validation.
type staticToken string

func (s staticToken) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: string(s)}, nil
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Body: `{"message":"Record Not Found"}`}
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Record Not Found")
}

func TestWrapTransportErrPassthrough(t *testing.T) {
	base := errors.New("conn refused")
	err := wrapTransportErr(base)
	require.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, ErrTimeout)
}
