package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys used on Switchboard spans.
const (
	AttrModel     = "switchboard.model"
	AttrStream    = "switchboard.stream"
	AttrKeyIndex  = "switchboard.key_index"
	AttrReason    = "switchboard.selection_reason"
	AttrScore     = "switchboard.complexity"
	AttrFallback  = "switchboard.fallback"
	AttrRequestID = "switchboard.request_id"
)

// Model returns the model attribute.
func Model(model string) attribute.KeyValue {
	return attribute.String(AttrModel, model)
}

// Stream returns the delivery-mode attribute.
func Stream(stream bool) attribute.KeyValue {
	return attribute.Bool(AttrStream, stream)
}

// KeyIndex returns the credential position attribute.
func KeyIndex(i int) attribute.KeyValue {
	return attribute.Int(AttrKeyIndex, i)
}

// Reason returns the selection-reason attribute.
func Reason(reason string) attribute.KeyValue {
	return attribute.String(AttrReason, reason)
}

// Score returns the complexity-score attribute.
func Score(score float64) attribute.KeyValue {
	return attribute.Float64(AttrScore, score)
}

// Fallback returns the fallback attribute.
func Fallback(fellBack bool) attribute.KeyValue {
	return attribute.Bool(AttrFallback, fellBack)
}

// RequestID returns the request ID attribute.
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}
