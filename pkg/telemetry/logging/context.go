package logging

import (
	"context"
	"log/slog"
)

// field is a context key whose value is logged under its name.
type field string

const (
	requestIDField field = "request_id"
	modelField     field = "model"
	traceIDField   field = "trace_id"
)

// contextFields lists the fields copied onto every record, in output order.
var contextFields = []field{requestIDField, modelField, traceIDField}

func (f field) get(ctx context.Context) string {
	v, _ := ctx.Value(f).(string)
	return v
}

// WithRequestID tags ctx with the inbound request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDField, requestID)
}

// GetRequestID returns the request ID carried by ctx, or "".
func GetRequestID(ctx context.Context) string {
	return requestIDField.get(ctx)
}

// WithModel tags ctx with the model the request was routed to.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, modelField, model)
}

// GetModel returns the routed model carried by ctx, or "".
func GetModel(ctx context.Context) string {
	return modelField.get(ctx)
}

// WithTraceID tags ctx with the active trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDField, traceID)
}

// GetTraceID returns the trace ID carried by ctx, or "".
func GetTraceID(ctx context.Context) string {
	return traceIDField.get(ctx)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	for _, f := range contextFields {
		if v := f.get(ctx); v != "" {
			attrs = append(attrs, slog.String(string(f), v))
		}
	}
	return attrs
}
