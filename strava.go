// Package strava is a typed client for the Strava V3 REST API.
//
// A Client groups one service per API resource family (activities, athletes,
// clubs, segments, routes, streams, gear, uploads). Every call attaches a
// bearer token obtained from an oauth2.TokenSource, issues a single bounded
// HTTP request, and decodes the JSON response into typed structures. The
// client performs no retries, caching, or backoff; retry policy belongs to the
// embedding application. Token acquisition and refresh live in the oauth
// subpackage.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://www.strava.com/api/v3/"

	// defaultTimeout bounds every regular API call.
	defaultTimeout = 30 * time.Second

	// uploadTimeout bounds activity uploads, which carry file payloads.
	uploadTimeout = 2 * time.Minute

	userAgent = "openvelo-strava-go"
)

// Client is the Strava API client. Construct it with NewClient; the zero value
// is not usable.
type Client struct {
	baseURL      *url.URL
	client       *http.Client
	uploadClient *http.Client
	source       oauth2.TokenSource
	logger       *slog.Logger

	// One service per API resource family.
	Activities *ActivitiesService
	Athletes   *AthletesService
	Clubs      *ClubsService
	Gear       *GearService
	Routes     *RoutesService
	Segments   *SegmentsService
	Streams    *StreamsService
	Uploads    *UploadsService
}

// service is embedded by every resource service to share the client.
type service struct {
	client *Client
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithAccessToken authenticates every call with a fixed access token. The
// token is not refreshed; pair a short-lived token with oauth.TokenSource
// instead when the session outlives it.
func WithAccessToken(token string) ClientOption {
	return func(c *Client) error {
		if strings.TrimSpace(token) == "" {
			return invalidArg("token", "must not be empty")
		}
		c.source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		return nil
	}
}

// WithTokenSource authenticates calls with tokens drawn from src before each
// request. Use oauth.Flow's TokenSource for automatic refresh.
func WithTokenSource(src oauth2.TokenSource) ClientOption {
	return func(c *Client) error {
		if src == nil {
			return invalidArg("token source", "must not be nil")
		}
		c.source = src
		return nil
	}
}

// WithBaseURL points the client at a different API root. Used by tests and
// API-compatible mirrors.
func WithBaseURL(rawURL string) ClientOption {
	return func(c *Client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("strava: invalid base URL: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client. A zero Timeout on the
// supplied client disables the default request bound; most callers should keep
// one.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		if hc == nil {
			return invalidArg("http client", "must not be nil")
		}
		c.client = hc
		uc := *hc
		if uc.Timeout != 0 && uc.Timeout < uploadTimeout {
			uc.Timeout = uploadTimeout
		}
		c.uploadClient = &uc
		return nil
	}
}

// WithLogger sets the logger for request traces. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates a Client. A token source is required: supply
// WithAccessToken or WithTokenSource.
func NewClient(opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(defaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("strava: parsing default base URL: %w", err)
	}

	c := &Client{
		baseURL:      base,
		client:       &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.source == nil {
		return nil, invalidArg("token source", "is required (use WithAccessToken or WithTokenSource)")
	}

	c.Activities = &ActivitiesService{service{c}}
	c.Athletes = &AthletesService{service{c}}
	c.Clubs = &ClubsService{service{c}}
	c.Gear = &GearService{service{c}}
	c.Routes = &RoutesService{service{c}}
	c.Segments = &SegmentsService{service{c}}
	c.Streams = &StreamsService{service{c}}
	c.Uploads = &UploadsService{service{c}}

	return c, nil
}

// newRequest builds an authenticated request for the given API path. The path
// is relative to the base URL and must not start with a slash.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("strava: invalid request path %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(rel)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	tok, err := c.source.Token()
	if err != nil {
		return nil, fmt.Errorf("strava: fetching access token: %w", err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, invalidArg("access token", "must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("strava: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do issues an authenticated call and decodes the JSON response into v.
// A form body, when present, is sent URL-encoded. v must be a pointer; a nil v
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, query, form url.Values, v any) error {
	var body io.Reader
	contentType := ""
	if form != nil {
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}

	data, err := c.roundTrip(c.client, req)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s %s", ErrEmptyResponse, method, path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// doRaw issues an authenticated call and returns the response body verbatim.
// Used for export endpoints that return GPX/TCX documents rather than JSON.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	data, err := c.roundTrip(c.client, req)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrEmptyResponse, method, path)
	}
	return data, nil
}

// roundTrip sends the request, reads the whole body, and classifies non-2xx
// responses as *APIError.
func (c *Client) roundTrip(hc *http.Client, req *http.Request) ([]byte, error) {
	c.logger.DebugContext(req.Context(), "api request", "method", req.Method, "url", req.URL.String())

	resp, err := hc.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("strava: reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// ListOptions carries the pagination parameters shared by all list calls.
// Zero values are omitted, leaving the API defaults in effect.
type ListOptions struct {
	Page    int // page number, starting at 1
	PerPage int // results per page, provider caps at 200
}

func (o *ListOptions) values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	return q
}

// itoa formats an int64 identifier for use in request paths.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
