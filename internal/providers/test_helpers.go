package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/switchboard/pkg/providers"
)

// TestConfig returns a test provider configuration with instant backoff.
func TestConfig(baseURL string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                "gemini",
		BaseURL:             baseURL,
		Timeout:             5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		Backoff:             func(int) time.Duration { return 0 },
	}
}

// TestGeneration returns the generation parameters used in tests.
func TestGeneration() providers.GenerationConfig {
	return providers.GenerationConfig{MaxOutputTokens: 65000, Temperature: 0.7}
}

// UserText creates a single user turn.
func UserText(text string) []providers.Content {
	return []providers.Content{{Role: providers.RoleUser, Parts: []providers.Part{providers.TextPart(text)}}}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorType fails the test if err is not of the expected type.
func AssertErrorType(t *testing.T, err error, expectedType interface{}) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ok bool
	switch expectedType.(type) {
	case *providers.AuthError:
		var target *providers.AuthError
		ok = errors.As(err, &target)
	case *providers.RateLimitError:
		var target *providers.RateLimitError
		ok = errors.As(err, &target)
	case *providers.ProviderError:
		var target *providers.ProviderError
		ok = errors.As(err, &target)
	case *providers.ParseError:
		var target *providers.ParseError
		ok = errors.As(err, &target)
	case *providers.StreamError:
		var target *providers.StreamError
		ok = errors.As(err, &target)
	case *providers.ConfigError:
		var target *providers.ConfigError
		ok = errors.As(err, &target)
	default:
		t.Fatalf("unknown error type: %T", expectedType)
	}
	if !ok {
		t.Fatalf("expected %T, got %T: %v", expectedType, err, err)
	}
}

// WithTimeout runs a function with a timeout context.
func WithTimeout(t *testing.T, timeout time.Duration, fn func(ctx context.Context)) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		fn(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timeout after %s", timeout)
	}
}

// CollectStream drains a stream, failing the test if it does not close
// within timeout.
func CollectStream(t *testing.T, events <-chan providers.StreamEvent, timeout time.Duration) []providers.StreamEvent {
	t.Helper()

	var collected []providers.StreamEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, ev)
		case <-deadline:
			t.Fatalf("stream did not terminate within %s (got %d events)", timeout, len(collected))
		}
	}
}
