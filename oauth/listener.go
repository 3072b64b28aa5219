package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Pages shown in the athlete's browser after the redirect lands.
const (
	successPage = `<!DOCTYPE html>
<html><head><title>Authorization complete</title></head>
<body><h1>Authorization complete</h1>
<p>You can close this window and return to the application.</p></body></html>`

	failurePage = `<!DOCTYPE html>
<html><head><title>Authorization failed</title></head>
<body><h1>Authorization failed</h1>
<p>No authorization code was received. You can close this window.</p></body></html>`
)

// callbackResult is the outcome of one redirect request.
type callbackResult struct {
	code string
	err  error
}

// WaitForCode runs a local HTTP listener at the flow's redirect URL and blocks
// until the first authorization redirect arrives, the wait timeout passes, or
// ctx is done. The listener is single-shot: it serves exactly one result and
// shuts down before returning.
func (f *Flow) WaitForCode(ctx context.Context) (string, error) {
	if f.redirectURL == "" {
		return "", ErrNoRedirectURL
	}
	u, err := url.Parse(f.redirectURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: cannot listen at %q", ErrNoRedirectURL, f.redirectURL)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	// Listener is created synchronously so a busy port surfaces immediately.
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return "", fmt.Errorf("oauth: listening on %s: %w", u.Host, err)
	}

	// Buffered so the first redirect wins and later ones don't block.
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		res := parseCallback(r)
		select {
		case results <- res:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, failurePage)
			return
		}
		_, _ = io.WriteString(w, successPage)
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // the redirect is a single small GET
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	defer func() {
		// Graceful first so the browser receives the result page.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	}()

	f.logger.InfoContext(ctx, "waiting for authorization callback",
		"address", ln.Addr().String(), "path", path, "timeout", f.waitTimeout)

	timer := time.NewTimer(f.waitTimeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		return res.code, nil
	case <-timer.C:
		return "", ErrCallbackTimeout
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrCallbackTimeout
		}
		return "", fmt.Errorf("oauth: waiting for callback: %w", ctx.Err())
	case err := <-serveErr:
		return "", fmt.Errorf("oauth: callback server: %w", err)
	}
}

// parseCallback classifies one redirect request. Providers send either a code
// or an error parameter, never both.
func parseCallback(r *http.Request) callbackResult {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		if e == "access_denied" {
			return callbackResult{err: ErrAccessDenied}
		}
		return callbackResult{err: fmt.Errorf("%w: provider reported %q", ErrMissingCode, e)}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: ErrMissingCode}
	}
	return callbackResult{code: code}
}
