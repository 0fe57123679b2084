// Package middleware holds the HTTP middleware wrapped around the proxy routes.
//
// # Middleware Chain
//
// The server installs the chain outermost first:
//
//	Recovery → RequestID → Logging → Tracing → CORS → handler
//
// RequestID runs before Logging so both request log lines carry the ID.
//
// Recovery turns a panic into a 500 unless the response has already
// started, in which case the connection is aborted. Tracing continues W3C
// trace context from the caller.
//
// # Request ID
//
// A client X-Request-ID of 1 to 128 visible ASCII bytes is kept; anything
// else is replaced with a fresh UUID. The ID lives under the logging context
// key, so every record written with the request context carries it.
//
// # Streaming
//
// The status-capturing writer used by LoggingMiddleware implements
// http.Flusher, so Server-Sent Events are flushed frame by frame.
package middleware
