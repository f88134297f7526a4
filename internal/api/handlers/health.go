package handlers

import (
	"context"
	"net/http"
	"storage-match-service/internal/ports"
	"storage-match-service/internal/services"
	"time"

	"github.com/rs/zerolog/log"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadyHandler reports whether the inventory is loaded and the optional
// result cache is reachable. An unreachable cache degrades but does not
// block readiness, since searches fall back to computing results.
type ReadyHandler struct {
	Index *services.InventoryIndex
	Cache ports.MatchCache
}

func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Index == nil {
		writeError(w, r, http.StatusServiceUnavailable, "inventory not loaded")
		return
	}

	res := map[string]any{
		"status":    "ready",
		"locations": h.Index.Len(),
		"listings":  h.Index.ListingCount(),
	}

	if p, ok := h.Cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("match cache unreachable")
			res["cache"] = "degraded"
		} else {
			res["cache"] = "ok"
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
