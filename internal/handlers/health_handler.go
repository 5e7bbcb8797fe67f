package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and configuration gaps.
type HealthHandler struct {
	transport string
	missing   func() []string
}

// NewHealthHandler creates a new HealthHandler. missing lists settings the
// notification pipeline still needs.
func NewHealthHandler(transport string, missing func() []string) *HealthHandler {
	return &HealthHandler{transport: transport, missing: missing}
}

// RegisterRoutes registers the health routes with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/health/env", h.HandleEnv)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"time":      time.Now().UTC().Format(time.RFC3339),
		"transport": h.transport,
	})
}

// HandleEnv reports which mail settings are missing. It never echoes values.
func (h *HealthHandler) HandleEnv(c *fiber.Ctx) error {
	missing := h.missing()
	if missing == nil {
		missing = []string{}
	}
	return c.JSON(fiber.Map{
		"ok":      len(missing) == 0,
		"missing": missing,
	})
}
