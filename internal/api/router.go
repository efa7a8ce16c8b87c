package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/youchat/ytanalyzer/internal/api/handler"
	mw "github.com/youchat/ytanalyzer/internal/api/middleware"
	"github.com/youchat/ytanalyzer/internal/config"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	cfg config.ServerConfig,
	analyzeHandler *handler.AnalyzeHandler,
	cacheHandler *handler.CacheHandler,
	healthHandler *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //ready -> /ready)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.CORS(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// Health endpoints
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	r.Post("/analyze", analyzeHandler.Analyze)
	r.Post("/cache", cacheHandler.Cache)

	return r
}
