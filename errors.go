package strava

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Errors shared by every API operation. Operations wrap these sentinels with
// call-specific detail; match with errors.Is.
var (
	// ErrInvalidArgument indicates a required input (token, identifier, code,
	// configuration string) is empty or out of range. Caller-fixable; never
	// worth retrying as-is.
	ErrInvalidArgument = errors.New("strava: invalid argument")

	// ErrPreconditionFailed indicates the operation needs state that has not
	// been established yet, such as refreshing without a stored refresh token.
	ErrPreconditionFailed = errors.New("strava: precondition failed")

	// ErrEmptyResponse indicates the API replied with success but an empty body
	// where a payload was expected.
	ErrEmptyResponse = errors.New("strava: empty response body")

	// ErrMalformedResponse indicates the API replied with success but a body
	// that could not be decoded. Retrying the identical request is unlikely to
	// help.
	ErrMalformedResponse = errors.New("strava: malformed response body")

	// ErrTimeout indicates the bounded wait for an HTTP response elapsed.
	ErrTimeout = errors.New("strava: request timed out")
)

// APIError is returned when the API responds with a non-2xx status. It carries
// the status code and the raw response body for diagnosis.
//
// Status 401 signals an invalid or expired access token; refresh and retry once
// before surfacing it. Status 429 signals rate limiting; back off before the
// next call. The client itself never retries.
type APIError struct {
	StatusCode int    // HTTP status code of the response
	Body       string // raw response body, possibly empty
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("strava: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("strava: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Unauthorized reports whether the failure is an invalid/expired token (401).
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == 401
}

// RateLimited reports whether the failure is a rate-limit rejection (429).
func (e *APIError) RateLimited() bool {
	return e.StatusCode == 429
}

// invalidArg wraps ErrInvalidArgument naming the offending parameter.
func invalidArg(name, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, name, reason)
}

// wrapTransportErr maps transport-level deadline failures onto ErrTimeout and
// passes everything else through wrapped.
func wrapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("strava: request failed: %w", err)
}
