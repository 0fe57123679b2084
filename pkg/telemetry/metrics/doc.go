// Package metrics provides Prometheus metrics collection for Switchboard.
//
// # Metrics Categories
//
//   - Request metrics: completed requests and their duration by delivery mode
//   - Routing metrics: model selections by rule, classifier scores, fallbacks
//   - Provider metrics: per-credential call outcomes and generation duration
//
// # Usage
//
//	collector := metrics.NewCollector("switchboard", nil)
//	collector.RecordSelection("gemini-2.5-pro", "complex")
//	collector.RecordCredentialAttempt("gemini-2.5-pro", "status")
//
// A nil *Collector is valid and records nothing, so components can take one
// optionally.
package metrics
