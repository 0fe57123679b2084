package proxy

import (
	"net/http"
	"time"

	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/telemetry/logging"
)

// RequestMetadata summarizes an inbound chat request for logging.
type RequestMetadata struct {
	RequestID  string
	Model      string
	Stream     bool
	Messages   int
	Images     int
	Documents  int
	UserAgent  string
	RemoteAddr string
	Received   time.Time
}

// ResponseMetadata summarizes a finished chat response for logging.
type ResponseMetadata struct {
	StatusCode int
	// Model is the model the router settled on, after any fallback.
	Model    string
	Streamed bool
	Chunks   int
	Latency  time.Duration
	Error    error
}

// ExtractRequestMetadata describes req. The request ID is the one assigned
// by the middleware, or the inbound header when the middleware did not run.
func ExtractRequestMetadata(r *http.Request, req *types.ChatCompletionRequest) *RequestMetadata {
	id := logging.GetRequestID(r.Context())
	if id == "" {
		id = r.Header.Get(RequestIDHeader)
	}

	m := &RequestMetadata{
		RequestID:  id,
		Model:      req.Model,
		Stream:     req.WantsStream(),
		Messages:   len(req.Messages),
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
		Received:   time.Now(),
	}
	for _, msg := range req.Messages {
		for _, b := range msg.Content.Blocks() {
			switch b.Type {
			case types.BlockImageURL:
				m.Images++
			case types.BlockFile, types.BlockDocument:
				m.Documents++
			}
		}
	}
	return m
}

// LogAttrs returns slog key-value pairs.
func (m *RequestMetadata) LogAttrs() []any {
	attrs := []any{
		"requested_model", m.Model,
		"stream", m.Stream,
		"messages", m.Messages,
		"remote_addr", m.RemoteAddr,
		"user_agent", m.UserAgent,
	}
	if m.Images > 0 || m.Documents > 0 {
		attrs = append(attrs, "images", m.Images, "documents", m.Documents)
	}
	return attrs
}

// LogAttrs returns slog key-value pairs.
func (m *ResponseMetadata) LogAttrs() []any {
	attrs := []any{
		"status", m.StatusCode,
		"model", m.Model,
		"streamed", m.Streamed,
		"latency_ms", m.Latency.Milliseconds(),
	}
	if m.Streamed {
		attrs = append(attrs, "chunks", m.Chunks)
	}
	if m.Error != nil {
		attrs = append(attrs, "error", m.Error)
	}
	return attrs
}
