package middleware

import (
	"context"
	"time"
)

type contextKey int

const startTimeKey contextKey = iota

// GetStartTime returns when LoggingMiddleware saw the request, or the zero
// time outside the middleware.
func GetStartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey).(time.Time)
	return t
}
