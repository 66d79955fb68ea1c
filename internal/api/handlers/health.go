package handlers

import (
	"context"
	"log"
	"net/http"
	"route-optimizer-service/internal/platform/obs"
)

// HealthHandler reports liveness and, when Ping is set, storage reachability.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			log.Printf("req_id=%s health: storage ping failed: %v", obs.RequestID(r.Context()), err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": "unreachable"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
