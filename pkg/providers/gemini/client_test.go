package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	testproviders "mercator-hq/switchboard/internal/providers"
	"mercator-hq/switchboard/pkg/providers"
)

func newTestProvider(t *testing.T, ms *testproviders.MockServer, keys ...string) *Provider {
	t.Helper()
	p, err := NewProvider(Options{
		Provider:   testproviders.TestConfig(ms.URL()),
		Keys:       providers.NewOrderedKeyPool(keys),
		Generation: testproviders.TestGeneration(),
	})
	testproviders.AssertNoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"missing base url", Options{Keys: providers.NewKeyPool([]string{"k"})}, "base_url"},
		{"missing keys", Options{Provider: providers.ProviderConfig{BaseURL: "http://x"}}, "api_keys"},
		{"empty pool", Options{Provider: providers.ProviderConfig{BaseURL: "http://x"}, Keys: providers.NewKeyPool(nil)}, "api_keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.opts)
			var cfgErr *providers.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestProvider_Generate(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.SetResponse(testproviders.MockText("4"))

	p := newTestProvider(t, ms, "key-one")
	got := p.Generate(context.Background(), "gemini-2.5-flash", "What's 2+2?")
	if got != "4" {
		t.Fatalf("Generate() = %q, want %q", got, "4")
	}

	reqs := ms.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Model != "gemini-2.5-flash" || reqs[0].Method != "generateContent" || reqs[0].Key != "key-one" {
		t.Errorf("unexpected request %+v", reqs[0])
	}
	if reqs[0].Alt != "" {
		t.Errorf("non-stream request must not ask for SSE, got alt=%q", reqs[0].Alt)
	}

	var body GenerateRequest
	testproviders.AssertNoError(t, json.Unmarshal(reqs[0].Body, &body))
	if len(body.Contents) != 1 || body.Contents[0].Role != providers.RoleUser || body.Contents[0].Parts[0].Text != "What's 2+2?" {
		t.Errorf("unexpected contents %+v", body.Contents)
	}
	if body.GenerationConfig.MaxOutputTokens != 65000 || body.GenerationConfig.Temperature != 0.7 {
		t.Errorf("unexpected generation config %+v", body.GenerationConfig)
	}
}

func TestProvider_Generate_RotatesOnFailure(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.On("", "bad-status", testproviders.MockServerError())
	ms.On("", "bad-auth", testproviders.MockAuthError())
	ms.On("", "empty", testproviders.MockText(""))
	ms.On("", "garbage", testproviders.MockResponse{StatusCode: http.StatusOK, Body: "not json"})
	ms.On("", "good", testproviders.MockText("answer"))

	p := newTestProvider(t, ms, "bad-status", "bad-auth", "empty", "garbage", "good")
	if got := p.Generate(context.Background(), "m", "q"); got != "answer" {
		t.Fatalf("Generate() = %q, want answer", got)
	}

	reqs := ms.Requests()
	if len(reqs) != 5 {
		t.Fatalf("expected one request per key, got %d", len(reqs))
	}
	for i, want := range []string{"bad-status", "bad-auth", "empty", "garbage", "good"} {
		if reqs[i].Key != want {
			t.Errorf("request %d used key %q, want %q", i, reqs[i].Key, want)
		}
	}
}

func TestProvider_Generate_Exhausted(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.SetResponse(testproviders.MockRateLimitError(1))

	p := newTestProvider(t, ms, "a", "b", "c")
	if got := p.Generate(context.Background(), "m", "q"); got != providers.ErrorSentinel {
		t.Fatalf("Generate() = %q, want sentinel", got)
	}
	if ms.GetRequestCount() != 3 {
		t.Errorf("expected 3 requests, got %d", ms.GetRequestCount())
	}
}

func TestProvider_Generate_TransportRetryPerKey(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.SetResponse(testproviders.MockDrop())

	cfg := testproviders.TestConfig(ms.URL())
	cfg.MaxRetries = 2
	p, err := NewProvider(Options{
		Provider:   cfg,
		Keys:       providers.NewOrderedKeyPool([]string{"a", "b"}),
		Generation: testproviders.TestGeneration(),
	})
	testproviders.AssertNoError(t, err)
	defer p.Close()

	if got := p.Generate(context.Background(), "m", "q"); got != providers.ErrorSentinel {
		t.Fatalf("Generate() = %q, want sentinel", got)
	}
	// (1 attempt + 2 retries) per key.
	if ms.GetRequestCount() != 6 {
		t.Errorf("expected 6 requests, got %d", ms.GetRequestCount())
	}
}

func TestProvider_Call(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.On("rater", "k", testproviders.MockText(`{"complexity": 0.3}`))
	ms.On("rater", "denied", testproviders.MockAuthError())

	p := newTestProvider(t, ms, "k")
	cfg := providers.GenerationConfig{MaxOutputTokens: 150, Temperature: 0}

	got, err := p.Call(context.Background(), "rater", "k", testproviders.UserText("hi"), cfg)
	testproviders.AssertNoError(t, err)
	if got != `{"complexity": 0.3}` {
		t.Errorf("Call() = %q", got)
	}

	var body map[string]json.RawMessage
	testproviders.AssertNoError(t, json.Unmarshal(ms.Requests()[0].Body, &body))
	if string(body["generationConfig"]) != `{"maxOutputTokens":150,"temperature":0}` {
		t.Errorf("unexpected generationConfig %s", body["generationConfig"])
	}

	_, err = p.Call(context.Background(), "rater", "denied", testproviders.UserText("hi"), cfg)
	testproviders.AssertErrorType(t, err, &providers.AuthError{})

	_, err = p.Call(context.Background(), "unknown-model-404", "k", testproviders.UserText("hi"), cfg)
	testproviders.AssertErrorType(t, err, &providers.ProviderError{})
}

func TestProvider_Endpoint(t *testing.T) {
	p := &Provider{baseURL: "https://example.test/v1"}
	got := p.endpoint("gemini-2.5-pro", "streamGenerateContent", "k&1", true)
	if !strings.HasPrefix(got, "https://example.test/v1/models/gemini-2.5-pro:streamGenerateContent?") {
		t.Errorf("unexpected endpoint %q", got)
	}
	if !strings.Contains(got, "alt=sse") || !strings.Contains(got, "key=k%261") {
		t.Errorf("expected escaped key and alt=sse, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, outcomeEmpty},
		{errEmptyReply, outcomeEmpty},
		{&providers.ParseError{Provider: "gemini", Cause: errNoCandidates}, outcomeParse},
		{&providers.AuthError{Provider: "gemini", StatusCode: 403}, outcomeStatus},
		{&providers.RateLimitError{Provider: "gemini"}, outcomeStatus},
		{&providers.ProviderError{Provider: "gemini", StatusCode: 500}, outcomeStatus},
		{&providers.ProviderError{Provider: "gemini", Message: "transport failure"}, outcomeTransport},
	}
	for _, tt := range tests {
		if got := classify(tt.err); got != tt.want {
			t.Errorf("classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestProvider_Generate_Cancelled(t *testing.T) {
	ms := testproviders.NewMockServer()
	defer ms.Close()
	ms.SetResponse(testproviders.MockResponse{Delay: time.Minute, Body: testproviders.MockGenerateResponse("late")})

	p := newTestProvider(t, ms, "a", "b")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	testproviders.WithTimeout(t, 5*time.Second, func(context.Context) {
		if got := p.Generate(ctx, "m", "q"); got != providers.ErrorSentinel {
			t.Errorf("Generate() = %q, want sentinel", got)
		}
	})
	if ms.GetRequestCount() != 1 {
		t.Errorf("expected rotation to stop after cancellation, got %d requests", ms.GetRequestCount())
	}
}
