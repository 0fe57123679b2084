package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// maxErrorBody bounds how much of a non-2xx body is kept in the error.
const maxErrorBody = 64 << 10

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It provides connection pooling and retry with exponential backoff on
// transport errors.
//
// Concrete provider implementations should embed this struct.
type HTTPProvider struct {
	// config contains the provider configuration
	config ProviderConfig

	// client is the HTTP client with connection pooling
	client *http.Client

	// backoff computes the delay before a retry attempt
	backoff func(attempt int) time.Duration
}

// DefaultBackoff waits 2^(attempt-1) seconds before retry attempt n, so the
// first retry waits one second.
func DefaultBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		// Enable HTTP/2
		ForceAttemptHTTP2: true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	backoff := config.Backoff
	if backoff == nil {
		backoff = DefaultBackoff
	}

	return &HTTPProvider{
		config:  config,
		client:  client,
		backoff: backoff,
	}
}

// GetName returns the provider's configured name.
func (p *HTTPProvider) GetName() string {
	return p.config.Name
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// DoRequest performs an HTTP request.
//
// Transport errors are retried up to MaxRetries times with exponential
// backoff. Any response with a non-2xx status is returned immediately as a
// typed error (*AuthError, *RateLimitError or *ProviderError) without retry;
// the failure handling for those belongs to the caller's credential rotation.
// On success the caller owns resp.Body.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := p.backoff(attempt)
			slog.Debug("retrying request",
				"provider", p.config.Name,
				"attempt", attempt,
				"max_retries", p.config.MaxRetries,
				"backoff", backoff,
			)

			// Wait with backoff (respect context cancellation)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if req.Header.Get("Content-Type") == "" && body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// Caller gone; a retry would only waste the connection.
				return nil, ctx.Err()
			}
			lastErr = err
			slog.Warn("request failed",
				"provider", p.config.Name,
				"attempt", attempt+1,
				"max_attempts", p.config.MaxRetries+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, p.statusError(resp, errorBody)
	}

	return nil, &ProviderError{
		Provider: p.config.Name,
		Message:  "transport failure",
		Cause:    lastErr,
	}
}

// statusError maps a non-2xx response to a typed error.
func (p *HTTPProvider) statusError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			Provider:   p.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	case http.StatusTooManyRequests:
		return &RateLimitError{
			Provider:   p.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(body),
		}
	default:
		return &ProviderError{
			Provider:   p.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
}

// Close closes idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Name)
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	// Try parsing as seconds
	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP date
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
