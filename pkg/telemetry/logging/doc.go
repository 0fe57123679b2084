// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The package builds a *slog.Logger whose handler:
//   - writes JSON or text output
//   - prepends request-scoped fields (request_id, model, trace_id) found in the context
//   - masks provider credentials (Google API keys, key= query parameters, bearer tokens)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:      "info",
//	    Format:     "json",
//	    RedactKeys: true,
//	})
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "Request processed", "duration_ms", 1234)
//
// Attributes whose key names a secret (key, api_key, authorization, *token)
// are replaced by a short prefix.
package logging
