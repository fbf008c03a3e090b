package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"kfit/internal/db"
	"kfit/internal/models"
)

// ProbeHandler handles health and Kubernetes probe endpoints.
type ProbeHandler struct {
	db      *db.DB
	version string
}

// NewProbeHandler creates a new probe handler. database may be nil when
// lookup statistics are disabled.
func NewProbeHandler(database *db.DB, version string) *ProbeHandler {
	return &ProbeHandler{db: database, version: version}
}

// Health handles the /api/health endpoint.
func (h *ProbeHandler) Health(c fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// The statistics database is only checked when one is configured.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil && !errors.Is(err, db.ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "database unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
