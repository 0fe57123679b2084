// Package server provides the HTTP front end of the routing proxy.
//
// The server mounts the OpenAI-compatible surface on a chi router:
//
//	GET  /health               {"message":"OK"}
//	GET  /v1/models            "Auto" followed by the advertised catalog
//	POST /v1/chat/completions  JSON completion or text/event-stream
//	GET  /metrics              Prometheus exposition, when enabled
//
// Every route runs behind the same middleware chain, outermost first:
// recovery, request ID, logging, tracing, CORS. Unknown paths and methods
// are answered with OpenAI-shaped error bodies.
//
// # Basic Usage
//
//	manager, err := providerfactory.NewManager(cfg, deps)
//	if err != nil {
//	    return err
//	}
//	defer manager.Close()
//
//	srv := server.NewServer(&cfg.Proxy, server.Options{
//	    Completer: manager.Router(),
//	    Catalog:   manager,
//	    Metrics:   collector.Handler(),
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// # TLS
//
// With proxy.tls.enabled the listener serves HTTPS using the certificate
// and key from proxy.tls. The files are re-read when they change, so a
// renewed certificate is served without a restart.
//
// # Graceful Shutdown
//
// Start returns once ctx is cancelled and in-flight requests have drained,
// bounded by proxy.shutdown_timeout. Connections still streaming when the
// timeout expires are closed, which cancels their request contexts.
package server
