// Package routing selects a target model for each chat request and runs the
// generation with fallback.
//
// # Selection
//
// The Selector applies a fixed precedence over conversation signals: meta
// requests go to the lite model, search requests to the simple model, an
// advertised requested model is honored, plain text is rated by the
// complexity classifier, and anything else goes to the complex model.
//
// # Fallback
//
// The Router treats a reply containing the in-band error tag as a failure
// of the selected model and retries once on the simple model. For streams
// the switch happens mid-flight: deltas already sent are kept, the failed
// producer is cancelled, and outward chunk ids keep increasing.
//
// Example usage:
//
//	router := routing.NewRouter(routing.Options{
//	    Analyzer:  analyzer,
//	    Selector:  selector,
//	    Generator: provider,
//	    Catalog:   catalog,
//	})
//	result, err := router.Handle(ctx, req)
//
// Reloadable wraps a Router so that configuration reloads can swap it
// without interrupting in-flight requests.
package routing
