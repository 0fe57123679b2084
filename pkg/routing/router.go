package routing

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"mercator-hq/switchboard/pkg/processing/content"
	"mercator-hq/switchboard/pkg/processing/conversation"
	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/telemetry/logging"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// CompletionID is the fixed id of non-streaming completions.
const CompletionID = "chatcmpl-1"

// Completer handles a chat completion request end to end.
// Router and Reloadable implement it.
type Completer interface {
	Handle(ctx context.Context, req *types.ChatCompletionRequest) (*Result, error)
}

// Options configures a Router.
type Options struct {
	Analyzer  *conversation.Analyzer
	Selector  *Selector
	Converter *content.Converter
	Generator providers.Generator
	Catalog   *Catalog

	// Metrics is optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Router runs the request pipeline: analyze, select, convert, generate with
// fallback to the simple model, and render OpenAI-shaped output.
//
// Router is safe for concurrent use; it keeps no per-request state.
//
// Example usage:
//
//	result, err := router.Handle(ctx, req)
//	if err != nil {
//	    return err
//	}
//	if result.Streaming() {
//	    for frame := range result.Frames {
//	        // write frame
//	    }
//	}
type Router struct {
	analyzer  *conversation.Analyzer
	selector  *Selector
	converter *content.Converter
	generator providers.Generator
	catalog   *Catalog
	metrics   *metrics.Collector
	logger    *slog.Logger
	stats     *AtomicRoutingStats
	now       func() time.Time
}

var _ Completer = (*Router)(nil)

// NewRouter creates a router.
func NewRouter(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	converter := opts.Converter
	if converter == nil {
		converter = content.NewConverter(logger)
	}
	return &Router{
		analyzer:  opts.Analyzer,
		selector:  opts.Selector,
		converter: converter,
		generator: opts.Generator,
		catalog:   opts.Catalog,
		metrics:   opts.Metrics,
		logger:    logger,
		stats:     NewAtomicRoutingStats(),
		now:       now,
	}
}

// Stats returns a snapshot of routing statistics.
func (r *Router) Stats() *RoutingStats {
	return r.stats.Snapshot()
}

// ResetStats zeroes the routing statistics.
func (r *Router) ResetStats() {
	r.stats.Reset()
}

// Catalog returns the router's model catalog.
func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// Handle implements Completer.
//
// Meta requests are always served non-streaming. Errors are returned only
// when selection fails; generation failures are reported in-band.
func (r *Router) Handle(ctx context.Context, req *types.ChatCompletionRequest) (*Result, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "router.handle")

	sig := r.analyzer.Analyze(req.Messages)
	decision, err := r.selector.Select(ctx, sig, req.Model)
	if err != nil {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, err)
		span.End()
		return nil, err
	}
	r.stats.RecordDecision(decision)

	ctx = logging.WithModel(ctx, decision.Model)
	stream := req.WantsStream() && !sig.IsMeta
	span.SetAttributes(tracing.Model(decision.Model), tracing.Stream(stream))

	if !stream {
		defer span.End()
		text, served := r.generateWithFallback(ctx, decision.Model, sig.LastUserText)
		span.SetAttributes(tracing.Fallback(served != decision.Model))
		r.metrics.RecordRequest(ModeNonStream, decision.Model, time.Since(start))
		return &Result{
			Model:    decision.Model,
			Response: r.completion(served, text),
		}, nil
	}

	contents := r.converter.Convert(req.Messages)
	frames := make(chan Frame)
	go func() {
		defer span.End()
		defer close(frames)
		fellBack := r.streamWithFallback(ctx, decision.Model, contents, frames)
		span.SetAttributes(tracing.Fallback(fellBack))
		r.metrics.RecordRequest(ModeStream, decision.Model, time.Since(start))
	}()

	return &Result{Model: decision.Model, Frames: frames}, nil
}

// generateWithFallback runs a non-streaming generation and retries once on
// the simple model when the primary returns the in-band error. It returns
// the reply and the model that produced it.
func (r *Router) generateWithFallback(ctx context.Context, model, text string) (string, string) {
	reply := r.generator.Generate(ctx, model, text)
	if !providers.ContainsError(reply) || ctx.Err() != nil {
		return reply, model
	}

	r.logger.WarnContext(ctx, "primary model failed, falling back",
		"model", model,
		"fallback", r.catalog.Simple,
	)
	r.stats.IncrementFallbacks()
	r.metrics.RecordFallback(ModeNonStream)
	return r.generator.Generate(ctx, r.catalog.Simple, text), r.catalog.Simple
}

// streamWithFallback forwards the primary stream and, if it carries the
// in-band error, replays generation on the simple model into the same
// output. Deltas already forwarded are kept. Outward chunk ids are
// renumbered so they keep increasing across the switch.
func (r *Router) streamWithFallback(ctx context.Context, model string, contents []providers.Content, out chan<- Frame) bool {
	w := &frameWriter{ctx: ctx, out: out, model: model, now: r.now}

	primaryCtx, cancelPrimary := context.WithCancel(ctx)
	failed := w.forward(r.generator.Stream(primaryCtx, model, contents), true)
	// Stops the primary producer if it is still running.
	cancelPrimary()

	if !failed || ctx.Err() != nil {
		w.finish()
		return false
	}

	r.logger.WarnContext(ctx, "primary stream failed, falling back",
		"model", model,
		"fallback", r.catalog.Simple,
		"forwarded", w.seq,
	)
	r.stats.IncrementFallbacks()
	r.metrics.RecordFallback(ModeStream)

	w.forward(r.generator.Stream(ctx, r.catalog.Simple, contents), false)
	w.finish()
	return true
}

// frameWriter renders stream events as outward frames and guarantees the
// stream ends with one stop chunk and one Done frame.
type frameWriter struct {
	ctx     context.Context
	out     chan<- Frame
	model   string
	now     func() time.Time
	seq     int
	stopped bool
	done    bool
}

// forward copies events until the source ends. When abandonOnError is set
// it stops at the first delta containing the in-band error and reports
// true without emitting that delta.
func (w *frameWriter) forward(events <-chan providers.StreamEvent, abandonOnError bool) bool {
	for ev := range events {
		if w.ctx.Err() != nil {
			return false
		}
		if ev.Done {
			w.emitDone()
			return false
		}
		if abandonOnError && providers.ContainsError(ev.Delta) {
			return true
		}
		if ev.Model != "" {
			w.model = ev.Model
		}
		w.emitChunk(ev.Delta, ev.FinishReason)
	}
	return false
}

// finish emits whatever terminal frames are still missing, unless the
// caller has gone away.
func (w *frameWriter) finish() {
	if w.ctx.Err() != nil {
		return
	}
	if !w.stopped {
		w.emitChunk("", providers.FinishReasonStop)
	}
	w.emitDone()
}

func (w *frameWriter) emitChunk(delta, finishReason string) {
	if w.stopped {
		return
	}
	w.seq++
	choice := types.StreamChoice{Delta: types.Delta{Content: delta}}
	if finishReason != "" {
		reason := finishReason
		choice.FinishReason = &reason
		w.stopped = true
	}
	w.send(Frame{Chunk: &types.ChatCompletionStreamChunk{
		ID:      "chatcmpl-" + strconv.Itoa(w.seq),
		Object:  types.ObjectChatCompletionChunk,
		Created: w.now().Unix(),
		Model:   w.model,
		Choices: []types.StreamChoice{choice},
	}})
}

func (w *frameWriter) emitDone() {
	if w.done {
		return
	}
	if !w.stopped {
		w.emitChunk("", providers.FinishReasonStop)
	}
	w.done = true
	w.send(Frame{Done: true})
}

func (w *frameWriter) send(f Frame) {
	select {
	case w.out <- f:
	case <-w.ctx.Done():
	}
}

func (r *Router) completion(model, text string) *types.ChatCompletionResponse {
	return &types.ChatCompletionResponse{
		ID:      CompletionID,
		Object:  types.ObjectChatCompletion,
		Created: r.now().Unix(),
		Model:   model,
		Choices: []types.Choice{{
			Index:        0,
			Message:      types.ResponseMessage{Role: types.RoleAssistant, Content: text},
			FinishReason: types.FinishReasonStop,
		}},
	}
}
