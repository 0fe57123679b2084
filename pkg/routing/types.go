package routing

import (
	"time"

	"mercator-hq/switchboard/pkg/proxy/types"
)

// Selection reasons, recorded in metrics and logs.
const (
	ReasonMeta       = "meta"
	ReasonSearch     = "search"
	ReasonOverride   = "override"
	ReasonComplex    = "complex"
	ReasonSimple     = "simple"
	ReasonMultimodal = "multimodal"
	ReasonNoText     = "no_text"
)

// Delivery modes, recorded in metrics.
const (
	ModeStream    = "stream"
	ModeNonStream = "non_stream"
)

// Decision is the outcome of model selection.
type Decision struct {
	// Model is the target model identifier.
	Model string

	// Reason names the rule that picked Model.
	Reason string

	// Score is the classifier score when Rated is true.
	Score float64

	// Rated is true when the classifier was consulted.
	Rated bool
}

// Frame is one item of an outward stream: a chunk, or the end marker.
type Frame struct {
	Chunk *types.ChatCompletionStreamChunk
	Done  bool
}

// Result is the rendered outcome of a chat request. Exactly one of Frames
// and Response is set.
type Result struct {
	// Model is the selected model.
	Model string

	// Frames delivers the streaming response. The channel is closed after
	// the Done frame, or early if the request context is cancelled.
	Frames <-chan Frame

	// Response is the non-streaming completion.
	Response *types.ChatCompletionResponse
}

// Streaming reports whether the result is delivered as a stream.
func (r *Result) Streaming() bool {
	return r.Frames != nil
}

// RoutingStats contains routing statistics.
type RoutingStats struct {
	// TotalRequests is the total number of chat requests handled.
	TotalRequests int64

	// RequestsPerModel tracks requests routed to each selected model.
	RequestsPerModel map[string]int64

	// SelectionReasons tracks how often each selection rule fired.
	SelectionReasons map[string]int64

	// Fallbacks is the number of requests that fell back to the simple model.
	Fallbacks int64

	// Errors is the total number of requests that failed before generation.
	Errors int64

	// LastResetTime is when statistics were last reset.
	LastResetTime time.Time
}
