package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agrischeme-api-go/internal/api"
	"agrischeme-api-go/internal/cache"
	"agrischeme-api-go/internal/config"
	"agrischeme-api-go/internal/gateway"
	"agrischeme-api-go/internal/matcher"
)

func main() {
	// Create root context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Scheme Matcher",
		zap.String("version", cfg.AppVersion),
		zap.String("backend", cfg.BackendBaseURL),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	// Open the cache store
	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open cache store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Error closing cache store", zap.Error(err))
		}
	}()

	if err := store.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach cache store", zap.Error(err))
	}
	logger.Info("Cache store ready")

	// Create components
	gw, err := gateway.NewGateway(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create backend gateway", zap.Error(err))
	}

	schemeCache := cache.New(store, logger)
	m := matcher.New(gw, schemeCache, logger)

	// Probe the backend once at startup — informational only, the service
	// serves from cache while the backend is down.
	if gw.CheckHealth(ctx) {
		logger.Info("Scheme backend reachable")
	} else {
		logger.Warn("Scheme backend unreachable, serving from cache until it recovers")
	}

	router := api.NewRouter(m, gw, schemeCache, store, cfg, logger)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start periodic backend health checks
	go runHealthChecks(ctx, m, logger)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", cfg.GetServerAddress()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-quit
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Cancel root context to stop background processes
	cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	logger.Info("Scheme Matcher shutdown complete")
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.LogFormat == "console" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zapCfg.Build()
}

func openStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		return cache.NewRedisStore(cfg)
	default:
		return cache.OpenSQLite(cfg.CachePath)
	}
}

func runHealthChecks(ctx context.Context, m matcher.Interface, logger *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.Healthy(ctx) {
				logger.Warn("Backend health check failed")
			}
		}
	}
}
