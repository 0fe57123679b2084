package routing

import (
	"context"
	"errors"
	"sync/atomic"

	"mercator-hq/switchboard/pkg/proxy/types"
)

// ErrNoRouter is returned by Reloadable.Handle before a router is installed.
var ErrNoRouter = errors.New("routing: no router installed")

// Reloadable is a Completer whose Router can be replaced at runtime, for
// example after a configuration reload. In-flight requests keep the router
// they started with.
type Reloadable struct {
	current atomic.Pointer[Router]
}

var _ Completer = (*Reloadable)(nil)

// NewReloadable wraps r.
func NewReloadable(r *Router) *Reloadable {
	rl := &Reloadable{}
	if r != nil {
		rl.current.Store(r)
	}
	return rl
}

// Swap installs r and returns the previous router.
func (rl *Reloadable) Swap(r *Router) *Router {
	return rl.current.Swap(r)
}

// Current returns the installed router, or nil.
func (rl *Reloadable) Current() *Router {
	return rl.current.Load()
}

// Handle implements Completer.
func (rl *Reloadable) Handle(ctx context.Context, req *types.ChatCompletionRequest) (*Result, error) {
	r := rl.current.Load()
	if r == nil {
		return nil, ErrNoRouter
	}
	return r.Handle(ctx, req)
}

// Stats returns the installed router's statistics, or nil. Counters start
// over when a new router is swapped in.
func (rl *Reloadable) Stats() *RoutingStats {
	r := rl.current.Load()
	if r == nil {
		return nil
	}
	return r.Stats()
}

// ResetStats zeroes the installed router's statistics.
func (rl *Reloadable) ResetStats() {
	if r := rl.current.Load(); r != nil {
		r.ResetStats()
	}
}
