package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/switchboard/pkg/proxy"
	"mercator-hq/switchboard/pkg/proxy/types"
)

var healthOK = types.HealthResponse{Message: "OK"}

// Health answers liveness probes. It does not consult the router, so a
// proxy with no upstream configured still reports OK.
func Health(w http.ResponseWriter, r *http.Request) {
	if err := proxy.WriteJSONResponse(w, http.StatusOK, healthOK); err != nil {
		slog.DebugContext(r.Context(), "health response not written", "error", err)
	}
}
