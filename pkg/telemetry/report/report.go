// Package report logs a periodic summary of routing statistics.
//
// The schedule is a cron expression from telemetry.report.schedule:
//
//   - "0 * * * *"   top of every hour
//   - "@every 15m"  every fifteen minutes
//   - "@daily"      once a day at midnight
//
// An empty schedule disables the reporter.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/routing"
)

// Source provides the counters to report.
type Source interface {
	Stats() *routing.RoutingStats
	ResetStats()
}

// Reporter runs the statistics report on a cron schedule.
type Reporter struct {
	source   Source
	schedule string
	reset    bool
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a reporter for source.
func New(cfg *config.ReportConfig, source Source, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		source:   source,
		schedule: cfg.Schedule,
		reset:    cfg.Reset,
		cron:     cron.New(),
		logger:   logger.With("component", "report"),
	}
}

// Start schedules the report and stops it when ctx is cancelled. It is a
// no-op when no schedule is configured.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Debug("report schedule not configured, skipping reporter")
		return nil
	}
	if r.running {
		return fmt.Errorf("reporter already started")
	}

	if _, err := r.cron.AddFunc(r.schedule, r.Report); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("statistics reporter started", "schedule", r.schedule, "reset", r.reset)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// Report logs one summary and, when configured, resets the counters.
func (r *Reporter) Report() {
	stats := r.source.Stats()
	if stats == nil {
		r.logger.Warn("no router installed, skipping statistics report")
		return
	}

	r.logger.Info("routing statistics",
		"total_requests", stats.TotalRequests,
		"fallbacks", stats.Fallbacks,
		"errors", stats.Errors,
		"models", stats.RequestsPerModel,
		"reasons", stats.SelectionReasons,
		"since", stats.LastResetTime,
	)

	if r.reset {
		r.source.ResetStats()
	}
}

// Stop halts the schedule and waits for a running report to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info("statistics reporter stopped")
}

// IsRunning reports whether the schedule is active.
func (r *Reporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
