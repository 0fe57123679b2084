package gemini

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

	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// ProviderName identifies this adapter in errors and logs.
const ProviderName = "gemini"

// Attempt outcomes recorded per credential.
const (
	outcomeSuccess   = "success"
	outcomeStatus    = "status"
	outcomeTransport = "transport"
	outcomeEmpty     = "empty"
	outcomeParse     = "parse"
)

const (
	modeStream    = "stream"
	modeNonStream = "non_stream"
)

// Options configures a Provider.
type Options struct {
	// Provider is the transport configuration. BaseURL must be set.
	Provider providers.ProviderConfig

	// Keys is the credential pool. Must not be empty.
	Keys *providers.KeyPool

	// Generation is sent with every streaming and non-streaming generation.
	Generation providers.GenerationConfig

	// Metrics is optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Provider is the Gemini generateContent adapter.
// It implements providers.Generator and providers.ContentCaller.
type Provider struct {
	*providers.HTTPProvider

	baseURL    string
	keys       *providers.KeyPool
	generation providers.GenerationConfig
	metrics    *metrics.Collector
	logger     *slog.Logger
}

var (
	_ providers.Generator     = (*Provider)(nil)
	_ providers.ContentCaller = (*Provider)(nil)
)

// NewProvider creates a new Gemini provider instance.
func NewProvider(opts Options) (*Provider, error) {
	if opts.Provider.Name == "" {
		opts.Provider.Name = ProviderName
	}
	if opts.Provider.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: opts.Provider.Name,
			Field:    "base_url",
			Message:  "base URL is required",
		}
	}
	if opts.Keys.Len() == 0 {
		return nil, &providers.ConfigError{
			Provider: opts.Provider.Name,
			Field:    "api_keys",
			Message:  "at least one API key is required",
		}
	}
	if opts.Provider.MaxIdleConnsPerHost == 0 {
		opts.Provider.MaxIdleConnsPerHost = 10
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(opts.Provider),
		baseURL:      strings.TrimRight(opts.Provider.BaseURL, "/"),
		keys:         opts.Keys,
		generation:   opts.Generation,
		metrics:      opts.Metrics,
		logger:       logger,
	}

	logger.Info("gemini provider initialized",
		"base_url", p.baseURL,
		"keys", opts.Keys.Len(),
	)
	return p, nil
}

// Keys returns the credential pool.
func (p *Provider) Keys() *providers.KeyPool {
	return p.keys
}

// endpoint builds a model method URL. The key travels as a query parameter.
func (p *Provider) endpoint(model, method, key string, stream bool) string {
	q := url.Values{}
	q.Set("key", key)
	if stream {
		q.Set("alt", "sse")
	}
	return fmt.Sprintf("%s/models/%s:%s?%s", p.baseURL, url.PathEscape(model), method, q.Encode())
}

// Stream implements providers.Generator.
//
// Credentials are tried in shuffled order. A credential whose connection fails,
// returns a non-2xx status, or yields no delta is abandoned for the next one.
// Once a delta has been emitted the stream is bound to that connection and
// finishes there.
func (p *Provider) Stream(ctx context.Context, model string, contents []providers.Content) <-chan providers.StreamEvent {
	events := make(chan providers.StreamEvent)

	go func() {
		defer close(events)

		ctx, span := tracing.Start(ctx, "gemini.stream", tracing.Model(model), tracing.Stream(true))
		defer span.End()
		start := time.Now()
		defer func() { p.metrics.RecordGeneration(model, modeStream, time.Since(start)) }()

		send := func(ev providers.StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		keys := p.keys.Shuffled()
		body, err := json.Marshal(GenerateRequest{Contents: contents, GenerationConfig: p.generation})
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to marshal stream request", "model", model, "error", err)
			keys = nil
		}

		for i, key := range keys {
			log := p.attemptLogger(ctx, model, i, len(keys), key)
			log.DebugContext(ctx, "opening stream")

			n, err := p.streamWithKey(ctx, model, key, body, send)
			if ctx.Err() != nil {
				return
			}
			if n == 0 {
				outcome := classify(err)
				p.metrics.RecordCredentialAttempt(model, outcome)
				log.WarnContext(ctx, "stream attempt failed, trying next key", "outcome", outcome, "error", err)
				continue
			}

			p.metrics.RecordCredentialAttempt(model, outcomeSuccess)
			span.SetAttributes(tracing.KeyIndex(i + 1))
			if err != nil {
				log.WarnContext(ctx, "stream ended with error after output", "chunks", n, "error", err)
			}
			if send(providers.StreamEvent{Index: n + 1, Model: model, FinishReason: providers.FinishReasonStop}) {
				send(providers.StreamEvent{Index: n + 2, Model: model, Done: true})
			}
			return
		}

		if ctx.Err() != nil {
			return
		}
		p.logger.ErrorContext(ctx, "all keys exhausted", "model", model, "keys", len(keys))
		tracing.SetStatus(span, errAllKeysFailed)
		if send(providers.StreamEvent{Index: 1, Model: model, Delta: providers.ErrorSentinel, FinishReason: providers.FinishReasonStop}) {
			send(providers.StreamEvent{Index: 2, Model: model, Done: true})
		}
	}()

	return events
}

// streamWithKey runs one streaming connection and forwards its deltas.
// It returns how many deltas were emitted.
func (p *Provider) streamWithKey(ctx context.Context, model, key string, body []byte, send func(providers.StreamEvent) bool) (int, error) {
	resp, err := p.DoRequest(ctx, http.MethodPost, p.endpoint(model, "streamGenerateContent", key, true), body, map[string]string{
		"Accept": "text/event-stream",
	})
	if err != nil {
		return 0, err
	}

	stream := newStreamReader(p.GetName(), resp.Body)
	defer stream.Close()

	n := 0
	for {
		delta, err := stream.Read(ctx)
		if errors.Is(err, io.EOF) {
			if n == 0 && stream.Skipped() > 0 {
				return 0, &providers.ParseError{Provider: p.GetName(), Cause: errNoCandidates}
			}
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
		if !send(providers.StreamEvent{Index: n, Model: model, Delta: delta}) {
			return n, ctx.Err()
		}
	}
}

// Generate implements providers.Generator.
// text is sent as a single user turn. Every credential is tried once; the
// first non-empty reply wins.
func (p *Provider) Generate(ctx context.Context, model, text string) string {
	ctx, span := tracing.Start(ctx, "gemini.generate", tracing.Model(model), tracing.Stream(false))
	defer span.End()
	start := time.Now()
	defer func() { p.metrics.RecordGeneration(model, modeNonStream, time.Since(start)) }()

	contents := userText(text)
	keys := p.keys.Shuffled()
	for i, key := range keys {
		if ctx.Err() != nil {
			break
		}
		log := p.attemptLogger(ctx, model, i, len(keys), key)

		reply, err := p.Call(ctx, model, key, contents, p.generation)
		if err == nil && reply == "" {
			err = errEmptyReply
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			outcome := classify(err)
			p.metrics.RecordCredentialAttempt(model, outcome)
			log.WarnContext(ctx, "generation attempt failed, trying next key", "outcome", outcome, "error", err)
			continue
		}

		p.metrics.RecordCredentialAttempt(model, outcomeSuccess)
		span.SetAttributes(tracing.KeyIndex(i + 1))
		return reply
	}

	p.logger.ErrorContext(ctx, "all keys exhausted", "model", model, "keys", len(keys))
	tracing.SetStatus(span, errAllKeysFailed)
	return providers.ErrorSentinel
}

// Call implements providers.ContentCaller.
func (p *Provider) Call(ctx context.Context, model, key string, contents []providers.Content, cfg providers.GenerationConfig) (string, error) {
	body, err := json.Marshal(GenerateRequest{Contents: contents, GenerationConfig: cfg})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.DoRequest(ctx, http.MethodPost, p.endpoint(model, "generateContent", key, false), body, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &providers.ParseError{
			Provider: p.GetName(),
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	text, err := parseResponse(data)
	if err != nil {
		return "", &providers.ParseError{
			Provider:    p.GetName(),
			RawResponse: string(data),
			Cause:       err,
		}
	}
	return text, nil
}

func (p *Provider) attemptLogger(ctx context.Context, model string, i, n int, key string) *slog.Logger {
	return p.logger.With(
		"model", model,
		"key_index", fmt.Sprintf("%d/%d", i+1, n),
		"key_id", providers.Fingerprint(key),
	)
}

// classify maps an attempt error to its metrics outcome label.
func classify(err error) string {
	var parseErr *providers.ParseError
	switch {
	case err == nil:
		return outcomeEmpty
	case errors.Is(err, errEmptyReply):
		return outcomeEmpty
	case errors.As(err, &parseErr):
		return outcomeParse
	case providers.StatusCode(err) != 0:
		return outcomeStatus
	default:
		return outcomeTransport
	}
}

var (
	errEmptyReply    = errors.New("empty reply")
	errAllKeysFailed = errors.New("all API keys failed")
)
