package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	service *services.ContactService
	logger  *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{service: service, logger: logger}
}

// RegisterRoutes registers the contact route with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
}

func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	var msg models.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.Submit(c.UserContext(), middleware.SessionID(c), msg); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Thank you for your message! We'll get back to you soon.",
	})
}
