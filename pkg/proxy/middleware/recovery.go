package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/switchboard/pkg/proxy/types"
)

// RecoveryMiddleware turns a handler panic into a 500 OpenAI error. When the
// handler had already started the response, typically a stream, the
// connection is left as is and only the panic is logged. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newStatusRecorder(w)
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", fmt.Sprint(v),
				"method", r.Method,
				"path", r.URL.Path,
				"response_started", rw.written,
				"stack", string(debug.Stack()),
			)
			if rw.written {
				return
			}

			rw.Header().Set("Content-Type", "application/json")
			rw.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(rw).Encode(types.NewServerError(
				"An internal error occurred. Please try again later.",
			))
		}()

		next.ServeHTTP(rw, r)
	})
}
