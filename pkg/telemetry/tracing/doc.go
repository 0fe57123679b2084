// Package tracing provides OpenTelemetry distributed tracing for Switchboard.
//
// New installs an OTLP/gRPC tracer provider as the global provider when
// tracing is enabled; otherwise spans are noops. Packages open spans through
// the package-level Start helper:
//
//	ctx, span := tracing.Start(ctx, "router.handle", tracing.Model(model))
//	defer span.End()
//
// Spans emitted: router.handle, selector.select, classifier.rate,
// gemini.stream, gemini.generate.
package tracing
