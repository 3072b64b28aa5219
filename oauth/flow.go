package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openvelo/strava"
)

// Errors raised by the authorization flow. All of them fold into the shared
// taxonomy of the strava package; match with errors.Is.
var (
	// ErrMissingCode reports a callback request that carried no authorization
	// code.
	ErrMissingCode = errors.New("oauth: authorization response carried no code")

	// ErrAccessDenied reports that the athlete rejected the authorization
	// request. It matches ErrMissingCode since a denial never carries a code.
	ErrAccessDenied = fmt.Errorf("%w: access denied by the athlete", ErrMissingCode)

	// ErrCallbackTimeout reports that no callback arrived within the wait
	// window.
	ErrCallbackTimeout = fmt.Errorf("%w: waiting for authorization callback", strava.ErrTimeout)

	// ErrNoRedirectURL reports a flow configured without a redirect URL trying
	// to receive a callback.
	ErrNoRedirectURL = fmt.Errorf("%w: redirect URL is not configured", strava.ErrInvalidArgument)

	// ErrNoRefreshToken reports a refresh attempted before any token exchange
	// stored a refresh token.
	ErrNoRefreshToken = fmt.Errorf("%w: refresh token required", strava.ErrPreconditionFailed)

	// ErrIncompleteToken reports a token response that parsed but lacked one of
	// the required fields. Exchange and Refresh signal this case with a nil
	// token instead; only the combined Authorize helper turns it into an error.
	ErrIncompleteToken = errors.New("oauth: token response missing required fields")
)

const (
	defaultWaitTimeout = 5 * time.Minute
	// Bounds code exchange and refresh calls.
	tokenTimeout = 30 * time.Second
)

// Endpoint groups the provider URLs one flow talks to. Override it through
// WithEndpoint to point a flow at a mock provider.
type Endpoint struct {
	AuthURL        string
	TokenURL       string
	DeauthorizeURL string
}

// DefaultEndpoint is the production provider.
var DefaultEndpoint = Endpoint{
	AuthURL:        AuthURL,
	TokenURL:       TokenURL,
	DeauthorizeURL: DeauthorizeURL,
}

// Flow drives the three-legged authorization dance for one application: build
// the authorization URL, collect the code from the redirect, and trade it for
// tokens. A Flow never mutates its Credentials except through Authorize and
// Deauthorize; Exchange and Refresh hand the result back to the caller.
type Flow struct {
	creds       *Credentials
	redirectURL string
	scope       string

	endpoint    Endpoint
	client      *http.Client
	logger      *slog.Logger
	openURL     func(url string) error
	waitTimeout time.Duration
}

// FlowOption configures a Flow.
type FlowOption func(*Flow) error

// WithHTTPClient replaces the HTTP client used for token endpoint calls.
func WithHTTPClient(hc *http.Client) FlowOption {
	return func(f *Flow) error {
		if hc == nil {
			return fmt.Errorf("%w: http client must not be nil", strava.ErrInvalidArgument)
		}
		f.client = hc
		return nil
	}
}

// WithEndpoint replaces the provider endpoints. Empty fields keep their
// defaults.
func WithEndpoint(e Endpoint) FlowOption {
	return func(f *Flow) error {
		if e.AuthURL != "" {
			f.endpoint.AuthURL = e.AuthURL
		}
		if e.TokenURL != "" {
			f.endpoint.TokenURL = e.TokenURL
		}
		if e.DeauthorizeURL != "" {
			f.endpoint.DeauthorizeURL = e.DeauthorizeURL
		}
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) error {
		f.logger = logger
		return nil
	}
}

// WithOpenURL replaces the browser launcher used by StartAuthorization.
func WithOpenURL(open func(url string) error) FlowOption {
	return func(f *Flow) error {
		if open == nil {
			return fmt.Errorf("%w: open function must not be nil", strava.ErrInvalidArgument)
		}
		f.openURL = open
		return nil
	}
}

// WithWaitTimeout bounds WaitForCode. Defaults to five minutes.
func WithWaitTimeout(d time.Duration) FlowOption {
	return func(f *Flow) error {
		if d <= 0 {
			return fmt.Errorf("%w: wait timeout must be positive", strava.ErrInvalidArgument)
		}
		f.waitTimeout = d
		return nil
	}
}

// NewFlow creates a Flow for the given credentials. redirectURL is where the
// provider sends the athlete back; it must be reachable by the local listener
// when WaitForCode is used. An empty scope falls back to the credentials'
// scope.
func NewFlow(creds *Credentials, redirectURL, scope string, opts ...FlowOption) (*Flow, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: credentials must not be nil", strava.ErrInvalidArgument)
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = creds.Scope
	}

	f := &Flow{
		creds:       creds,
		redirectURL: strings.TrimSpace(redirectURL),
		scope:       scope,
		endpoint:    DefaultEndpoint,
		client:      &http.Client{Timeout: tokenTimeout},
		logger:      slog.Default(),
		openURL:     openBrowser,
		waitTimeout: defaultWaitTimeout,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Credentials returns the credentials the flow operates on.
func (f *Flow) Credentials() *Credentials {
	return f.creds
}

// AuthCodeURL returns the URL the athlete visits to approve the application.
// The result is deterministic for a given flow: parameters are encoded in
// sorted order and no request state is generated.
func (f *Flow) AuthCodeURL() string {
	q := url.Values{}
	q.Set("client_id", f.creds.ClientID)
	q.Set("redirect_uri", f.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", f.scope)
	q.Set("approval_prompt", "force")
	return f.endpoint.AuthURL + "?" + q.Encode()
}

// StartAuthorization opens the system browser at AuthCodeURL. Callers that
// cannot launch a browser can present the URL themselves and still collect
// the code through WaitForCode.
func (f *Flow) StartAuthorization(ctx context.Context) error {
	u := f.AuthCodeURL()
	f.logger.InfoContext(ctx, "opening browser for authorization", "url", u)
	if err := f.openURL(u); err != nil {
		return fmt.Errorf("oauth: opening browser: %w", err)
	}
	return nil
}

// Exchange trades an authorization code for a token pair. It returns
// (nil, nil) when the provider answered with success but the response lacked
// one of access token, refresh token, or expiry; the athlete's prior tokens
// are untouched in that case.
func (f *Flow) Exchange(ctx context.Context, code string) (*Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: authorization code must not be empty", strava.ErrInvalidArgument)
	}

	form := url.Values{}
	form.Set("client_id", f.creds.ClientID)
	form.Set("client_secret", f.creds.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	return f.requestToken(ctx, form)
}

// Refresh trades the stored refresh token for a fresh token pair. Like
// Exchange it returns the result instead of mutating the credentials, and
// (nil, nil) on an incomplete success response. Refusal to refresh without a
// stored refresh token happens before any request is made.
func (f *Flow) Refresh(ctx context.Context) (*Token, error) {
	refresh := f.creds.Token().RefreshToken
	if refresh == "" {
		return nil, ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("client_id", f.creds.ClientID)
	form.Set("client_secret", f.creds.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)
	return f.requestToken(ctx, form)
}

// Authorize runs the whole dance: open the browser, wait for the callback,
// exchange the code, and store the result on the credentials. Unlike Exchange
// it treats an incomplete token response as ErrIncompleteToken.
func (f *Flow) Authorize(ctx context.Context) (*Token, error) {
	if err := f.StartAuthorization(ctx); err != nil {
		return nil, err
	}
	code, err := f.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}
	tok, err := f.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrIncompleteToken
	}
	f.creds.SetToken(*tok)
	f.logger.InfoContext(ctx, "authorization complete", "expires_at", tok.ExpiresAt)
	return tok, nil
}

// Deauthorize revokes the application's access and clears the stored token
// pair.
func (f *Flow) Deauthorize(ctx context.Context) error {
	tok := f.creds.Token()
	if tok.AccessToken == "" {
		return fmt.Errorf("%w: access token required", strava.ErrPreconditionFailed)
	}

	form := url.Values{}
	form.Set("access_token", tok.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint.DeauthorizeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("oauth: building deauthorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return wrapTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("oauth: reading deauthorize response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &strava.APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	f.creds.ClearToken()
	return nil
}

// tokenResponse is the provider's token endpoint payload. Expiry arrives as
// absolute Unix seconds.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// requestToken posts the form to the token endpoint and parses the reply.
// A successful response missing any required field yields (nil, nil).
func (f *Flow) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauth: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oauth: reading token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &strava.APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: token endpoint returned an empty body", strava.ErrMalformedResponse)
	}

	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("%w: %v", strava.ErrMalformedResponse, err)
	}
	if tr.AccessToken == "" || tr.RefreshToken == "" || tr.ExpiresAt == 0 {
		f.logger.WarnContext(ctx, "token response incomplete",
			"has_access_token", tr.AccessToken != "",
			"has_refresh_token", tr.RefreshToken != "",
			"has_expiry", tr.ExpiresAt != 0)
		return nil, nil
	}

	return &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Unix(tr.ExpiresAt, 0),
	}, nil
}

// wrapTransportErr maps transport-level deadline failures onto the shared
// timeout sentinel and passes everything else through wrapped.
func wrapTransportErr(err error) error {
	var ue *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
		return fmt.Errorf("%w: %v", strava.ErrTimeout, err)
	}
	return fmt.Errorf("oauth: request failed: %w", err)
}
