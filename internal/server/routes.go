package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kfit/internal/db"
	"kfit/internal/handlers"
	"kfit/internal/placeholder"
	"kfit/internal/resolver"
)

// RegisterRoutes registers all application routes. database may be nil when
// lookup statistics are disabled.
func (s *Server) RegisterRoutes(r *resolver.Resolver, renderer *placeholder.Renderer, database *db.DB) {
	// Initialize handlers
	placeholderHandler := handlers.NewPlaceholderHandler(r, renderer)
	probeHandler := handlers.NewProbeHandler(database, s.Cfg.Version)

	// Kubernetes probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public API, embedded by the frontend in <img> tags
	api := s.App.Group("/api")
	api.Get("/health", probeHandler.Health)

	ph := api.Group("/placeholder")
	ph.Get("/image", placeholderHandler.Image)
	ph.Get("/product-info", placeholderHandler.ProductInfo)
}
