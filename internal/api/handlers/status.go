package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/cache"
	"agrischeme-api-go/internal/config"
	"agrischeme-api-go/internal/matcher"
)

// StatusHandler reports backend connectivity and cache state
type StatusHandler struct {
	matcher matcher.Interface
	cache   *cache.SchemeCache
	config  *config.Config
	logger  *zap.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(m matcher.Interface, c *cache.SchemeCache, cfg *config.Config, logger *zap.Logger) *StatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusHandler{
		matcher: m,
		cache:   c,
		config:  cfg,
		logger:  logger,
	}
}

// statusResponse is the JSON body for GET /api/v1/status.
type statusResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	BackendReachable bool   `json:"backend_reachable"`
	CacheBackend     string `json:"cache_backend"`
	CachedSchemes    int    `json:"cached_schemes"`
}

// Handle handles GET /api/v1/status
func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	respondWithJSON(w, http.StatusOK, statusResponse{
		Status:           "ok",
		Version:          h.config.AppVersion,
		BackendReachable: h.matcher.Healthy(ctx),
		CacheBackend:     h.config.CacheBackend,
		CachedSchemes:    len(h.cache.Load(ctx)),
	})
}

// HandleClearCache handles DELETE /api/v1/cache
func (h *StatusHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}

	h.logger.Info("cache cleared")
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
