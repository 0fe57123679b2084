package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/switchboard/pkg/telemetry/logging"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// TracingMiddleware continues the caller's W3C trace context, opens a server
// span for the request and exposes its trace ID to log records.
//
// Example usage:
//
//	handler = TracingMiddleware(handler)
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.Extract(r.Context(), r.Header)
		ctx, span := tracing.Start(ctx, r.Method+" "+r.URL.Path,
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		)
		defer span.End()

		if id := tracing.TraceID(ctx); id != "" {
			ctx = logging.WithTraceID(ctx, id)
		}
		if id := GetRequestID(ctx); id != "" {
			span.SetAttributes(tracing.RequestID(id))
		}

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rw.status))
		if rw.status >= 500 {
			span.AddEvent("server error", trace.WithAttributes(attribute.Int("status", rw.status)))
		}
	})
}
