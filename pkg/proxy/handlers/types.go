package handlers

import "mercator-hq/switchboard/pkg/routing"

// CatalogSource yields the model catalog currently in effect. It is read on
// every request so configuration reloads are visible.
type CatalogSource interface {
	Catalog() *routing.Catalog
}

// AutoModelID is the synthetic catalog entry that leaves model choice to
// the router.
const AutoModelID = "Auto"

// ModelOwner is reported as owned_by for every listed model.
const ModelOwner = "system"
