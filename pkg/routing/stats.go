package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// AtomicRoutingStats implements thread-safe routing statistics using atomic operations.
type AtomicRoutingStats struct {
	totalRequests atomic.Int64

	// requestsPerModel tracks requests routed to each model
	requestsPerModel sync.Map // map[string]*atomic.Int64

	// selectionReasons tracks how often each selection rule fired
	selectionReasons sync.Map // map[string]*atomic.Int64

	fallbacks atomic.Int64
	errors    atomic.Int64

	// lastResetTime is when statistics were last reset
	lastResetTime time.Time

	// mu protects lastResetTime
	mu sync.RWMutex
}

// NewAtomicRoutingStats creates a new atomic routing statistics tracker.
func NewAtomicRoutingStats() *AtomicRoutingStats {
	return &AtomicRoutingStats{
		lastResetTime: time.Now(),
	}
}

// RecordDecision counts a completed selection.
func (s *AtomicRoutingStats) RecordDecision(d Decision) {
	s.totalRequests.Add(1)
	increment(&s.requestsPerModel, d.Model)
	increment(&s.selectionReasons, d.Reason)
}

// IncrementFallbacks increments the fallback counter.
func (s *AtomicRoutingStats) IncrementFallbacks() {
	s.fallbacks.Add(1)
}

// IncrementErrors increments the error counter.
func (s *AtomicRoutingStats) IncrementErrors() {
	s.errors.Add(1)
}

func increment(m *sync.Map, key string) {
	val, _ := m.LoadOrStore(key, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

func snapshot(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(key, value interface{}) bool {
		out[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

// Snapshot returns a point-in-time snapshot of the statistics.
// The returned RoutingStats struct is safe to read without locks.
func (s *AtomicRoutingStats) Snapshot() *RoutingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &RoutingStats{
		TotalRequests:    s.totalRequests.Load(),
		RequestsPerModel: snapshot(&s.requestsPerModel),
		SelectionReasons: snapshot(&s.selectionReasons),
		Fallbacks:        s.fallbacks.Load(),
		Errors:           s.errors.Load(),
		LastResetTime:    s.lastResetTime,
	}
}

// Reset resets all statistics to zero.
func (s *AtomicRoutingStats) Reset() {
	s.totalRequests.Store(0)
	s.fallbacks.Store(0)
	s.errors.Store(0)

	s.requestsPerModel.Range(func(key, value interface{}) bool {
		s.requestsPerModel.Delete(key)
		return true
	})
	s.selectionReasons.Range(func(key, value interface{}) bool {
		s.selectionReasons.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}
