package providers

import "strings"

const (
	// ErrorSentinel is the in-band payload produced when every credential
	// for a model has failed. It is delivered as ordinary content.
	ErrorSentinel = "[Error: All API keys failed]"

	// ErrorTag is the prefix that identifies an in-band error payload.
	ErrorTag = "[Error:"

	// FinishReasonStop marks the terminal chunk of a stream.
	FinishReasonStop = "stop"
)

// StreamEvent is one item of a generation stream.
//
// A stream is a sequence of delta events, then exactly one event with
// FinishReason set, then exactly one event with Done set. The channel is
// closed after the Done event, or early if the context is cancelled.
type StreamEvent struct {
	// Index is the 1-based position of the event within its stream.
	Index int

	// Model is the model that produced the event.
	Model string

	// Delta is the text delta. Empty on the terminal and Done events, except
	// for the exhaustion event which carries ErrorSentinel.
	Delta string

	// FinishReason is set on the terminal event.
	FinishReason string

	// Done marks the stream-end marker.
	Done bool
}

// ContainsError reports whether text carries an in-band error payload.
func ContainsError(text string) bool {
	return strings.Contains(text, ErrorTag)
}
