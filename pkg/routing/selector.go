package routing

import (
	"context"
	"log/slog"

	"mercator-hq/switchboard/pkg/processing/conversation"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// Rater scores utterance complexity in [0, 1].
type Rater interface {
	Rate(ctx context.Context, text string) (float64, error)
}

// SelectorOptions configures a Selector.
type SelectorOptions struct {
	Catalog *Catalog
	Rater   Rater

	// Threshold is the score at or above which text goes to the complex model.
	Threshold float64

	// Metrics is optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Selector picks the target model for a request.
type Selector struct {
	catalog   *Catalog
	rater     Rater
	threshold float64
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewSelector creates a selector.
func NewSelector(opts SelectorOptions) *Selector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		catalog:   opts.Catalog,
		rater:     opts.Rater,
		threshold: opts.Threshold,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// Select resolves the model for sig and the caller's requested model.
//
// Precedence:
//  1. meta requests go to the lite model
//  2. search requests go to the simple model, even when also meta
//  3. an advertised requested model is honored verbatim
//  4. text without attachments is rated: complex at or above the threshold,
//     simple below it
//  5. everything else goes to the complex model
//
// A requested model that is not advertised (including "Auto") is no override.
func (s *Selector) Select(ctx context.Context, sig conversation.Signals, requested string) (Decision, error) {
	ctx, span := tracing.Start(ctx, "selector.select")
	defer span.End()

	d, err := s.decide(ctx, sig, requested)
	if err != nil {
		tracing.SetStatus(span, err)
		return Decision{}, err
	}

	span.SetAttributes(tracing.Model(d.Model), tracing.Reason(d.Reason))
	if d.Rated {
		span.SetAttributes(tracing.Score(d.Score))
	}
	s.metrics.RecordSelection(d.Model, d.Reason)
	s.logger.DebugContext(ctx, "model selected",
		"model", d.Model,
		"reason", d.Reason,
		"requested", requested,
		"score", d.Score,
	)
	return d, nil
}

func (s *Selector) decide(ctx context.Context, sig conversation.Signals, requested string) (Decision, error) {
	var d Decision
	if sig.IsMeta {
		d = Decision{Model: s.catalog.Lite, Reason: ReasonMeta}
	}
	if sig.IsSearch {
		d = Decision{Model: s.catalog.Simple, Reason: ReasonSearch}
	}
	if d.Model != "" {
		return d, nil
	}

	if requested != "" && s.catalog.Contains(requested) {
		return Decision{Model: requested, Reason: ReasonOverride}, nil
	}

	if sig.LastUserText != "" && !sig.HasAttachment() {
		score, err := s.rater.Rate(ctx, sig.LastUserText)
		if err != nil {
			return Decision{}, &SelectionError{Cause: err}
		}
		if score >= s.threshold {
			return Decision{Model: s.catalog.Complex, Reason: ReasonComplex, Score: score, Rated: true}, nil
		}
		return Decision{Model: s.catalog.Simple, Reason: ReasonSimple, Score: score, Rated: true}, nil
	}

	if sig.HasAttachment() {
		return Decision{Model: s.catalog.Complex, Reason: ReasonMultimodal}, nil
	}
	return Decision{Model: s.catalog.Complex, Reason: ReasonNoText}, nil
}
