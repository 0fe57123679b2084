// Package telemetry groups the observability packages of Switchboard.
//
// # Components
//
//   - logging: slog-based structured logging with credential redaction
//   - metrics: Prometheus counters and histograms for routing and generation
//   - tracing: OpenTelemetry distributed tracing
//   - report: cron-scheduled log summaries of routing statistics
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactKeys: true})
//	collector := metrics.NewCollector("switchboard", nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(context.Background())
package telemetry
