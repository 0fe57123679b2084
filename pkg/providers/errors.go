package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Errors returned by a single credential attempt. The rotation loops in the
// gemini client switch on these types to pick the attempt outcome; none of
// them ever reaches the caller of a completion.

// ProviderError is a failed upstream call. StatusCode is zero when no
// response arrived, in which case Cause holds the transport error.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// AuthError is a credential rejected with 401 or 403.
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: credential rejected (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// RateLimitError is a 429. RetryAfter is zero when the upstream sent no hint.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s: %s", e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("%s: rate limited: %s", e.Provider, e.Message)
}

// ParseError is a 2xx body that could not be decoded.
type ParseError struct {
	Provider    string
	RawResponse string
	Cause       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Provider, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// StreamError is a failure while reading an already open event stream.
type StreamError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: stream %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: stream %s", e.Provider, e.Message)
}

func (e *StreamError) Unwrap() error { return e.Cause }

// ConfigError is an unusable provider setting, reported at build time.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Provider, e.Field, e.Message)
}

// StatusCode returns the upstream HTTP status carried by err, or 0 when err
// did not come from a response.
func StatusCode(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return http.StatusTooManyRequests
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}
