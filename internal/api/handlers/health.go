package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Pinger is satisfied by cache stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and readiness checks
type HealthHandler struct {
	store  Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HandleHealth handles GET /api/v1/health (liveness probe)
// Returns 200 unconditionally — the process is alive. Liveness must not
// depend on the backend or the cache store, otherwise an outage there
// cascades into restarts.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /api/v1/ready (readiness probe)
// Checks the cache store — without it the fallback path cannot serve.
// Backend reachability is deliberately NOT part of readiness: serving
// stale cached data while the backend is down is the whole point.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("readiness check failed: cache store unavailable", zap.Error(err))
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
