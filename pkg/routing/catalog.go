package routing

import "mercator-hq/switchboard/pkg/config"

// Catalog is the immutable set of model identifiers the router knows.
type Catalog struct {
	// Rate is the auxiliary complexity classifier model.
	Rate string

	// Lite serves meta requests.
	Lite string

	// Simple serves simple text and is the fallback target.
	Simple string

	// Complex serves demanding and multimodal requests.
	Complex string

	advertised []string
	known      map[string]struct{}
}

// NewCatalog builds a catalog from the models configuration.
func NewCatalog(cfg *config.ModelsConfig) *Catalog {
	c := &Catalog{
		Rate:       cfg.Rate,
		Lite:       cfg.Lite,
		Simple:     cfg.Simple,
		Complex:    cfg.Complex,
		advertised: append([]string(nil), cfg.Catalog...),
		known:      make(map[string]struct{}, len(cfg.Catalog)),
	}
	for _, id := range cfg.Catalog {
		c.known[id] = struct{}{}
	}
	return c
}

// Contains reports whether model is advertised.
func (c *Catalog) Contains(model string) bool {
	_, ok := c.known[model]
	return ok
}

// Advertised returns the advertised model identifiers in configured order.
func (c *Catalog) Advertised() []string {
	return append([]string(nil), c.advertised...)
}
