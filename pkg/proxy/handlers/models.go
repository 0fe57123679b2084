package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/switchboard/pkg/proxy"
	"mercator-hq/switchboard/pkg/proxy/types"
)

// ModelsHandler serves GET /v1/models: the synthetic "Auto" entry followed
// by the advertised catalog.
type ModelsHandler struct {
	source CatalogSource
	now    func() time.Time
}

// NewModelsHandler creates a models handler.
func NewModelsHandler(source CatalogSource) *ModelsHandler {
	return &ModelsHandler{source: source, now: time.Now}
}

// ServeHTTP implements http.Handler.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	created := h.now().Unix()
	ids := append([]string{AutoModelID}, h.source.Catalog().Advertised()...)

	list := types.ModelList{
		Object: types.ObjectList,
		Data:   make([]types.ModelCard, 0, len(ids)),
	}
	for _, id := range ids {
		list.Data = append(list.Data, types.ModelCard{
			ID:      id,
			Object:  types.ObjectModel,
			Created: created,
			OwnedBy: ModelOwner,
		})
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, list); err != nil {
		slog.ErrorContext(r.Context(), "failed to write models response", "error", err)
	}
}
