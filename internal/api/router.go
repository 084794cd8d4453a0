package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"agrischeme-api-go/internal/api/handlers"
	"agrischeme-api-go/internal/api/middleware"
	"agrischeme-api-go/internal/cache"
	"agrischeme-api-go/internal/config"
	"agrischeme-api-go/internal/matcher"
)

// NewRouter creates a new Chi router with all routes and middleware configured
func NewRouter(
	m matcher.Interface,
	lister handlers.Lister,
	schemeCache *cache.SchemeCache,
	store cache.Store,
	cfg *config.Config,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Initialize handlers
	eligibleHandler := handlers.NewEligibleHandler(m, logger)
	catalogHandler := handlers.NewCatalogHandler(lister, logger)
	statusHandler := handlers.NewStatusHandler(m, schemeCache, cfg, logger)
	healthHandler := handlers.NewHealthHandler(store, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Eligibility endpoints
		r.Post("/schemes/eligible", eligibleHandler.Handle)
		r.Post("/schemes/refilter", eligibleHandler.HandleRefilter)

		// Catalogue listing
		r.Get("/schemes", catalogHandler.Handle)

		// Status and cache administration
		r.Get("/status", statusHandler.Handle)
		r.Delete("/cache", statusHandler.HandleClearCache)

		// Health and readiness endpoints
		r.Get("/health", healthHandler.HandleHealth)
		r.Get("/ready", healthHandler.HandleReady)

		// Metrics endpoint
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	})

	return r
}
