package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// statusRecorder remembers the status and body size written through it.
// Flush and Unwrap are forwarded so streamed completions are not buffered.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int64
	written bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.status = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

func (rw *statusRecorder) Flush() {
	f, ok := rw.ResponseWriter.(http.Flusher)
	if !ok {
		return
	}
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	f.Flush()
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *statusRecorder) streaming() bool {
	return strings.HasPrefix(rw.Header().Get("Content-Type"), "text/event-stream")
}

// LoggingMiddleware writes one "request completed" record per request at a
// level derived from the status: error for 5xx, warn for 4xx, info
// otherwise. The request ID and trace ID are attached from the context by
// the logging handler.
//
//	{"level":"INFO","msg":"request completed","request_id":"550e8400-…",
//	 "method":"POST","path":"/v1/chat/completions","status":200,
//	 "stream":true,"bytes":5120,"latency_ms":1250,"remote_addr":"10.0.0.7:54321"}
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := context.WithValue(r.Context(), startTimeKey, start)
		rw := newStatusRecorder(w)

		slog.DebugContext(ctx, "request started",
			"method", r.Method,
			"path", r.URL.Path,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(rw, r.WithContext(ctx))

		level := slog.LevelInfo
		switch {
		case rw.status >= 500:
			level = slog.LevelError
		case rw.status >= 400:
			level = slog.LevelWarn
		}

		slog.Log(ctx, level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"stream", rw.streaming(),
			"bytes", rw.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}
