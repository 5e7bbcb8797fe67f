package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// QuoteRequest is the body of POST /checkout/quote.
type QuoteRequest struct {
	ShippingType models.ShippingTier `json:"shippingType"`
}

// CheckoutHandler handles the checkout form and order submission.
type CheckoutHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.OrderService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/options", h.HandleOptions)
	checkoutRoutes.Post("/validate", h.HandleValidate)
	checkoutRoutes.Post("/quote", h.HandleQuote)

	router.Post("/orders", h.HandleSubmitOrder)
}

// HandleOptions lists the shipping options and payment methods.
func (h *CheckoutHandler) HandleOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"shippingOptions": models.ShippingOptions(),
		"paymentMethods":  models.PaymentMethods(),
	})
}

// HandleValidate checks the checkout form without submitting it and reports
// every invalid field.
func (h *CheckoutHandler) HandleValidate(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	errs := h.service.Validate(req)
	if len(errs) == 0 {
		return c.JSON(fiber.Map{"valid": true})
	}
	fields := make([]fiber.Map, len(errs))
	for i, e := range errs {
		fields[i] = fiber.Map{"field": e.Field, "error": e.Error()}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"valid":   false,
		"message": "Validation failed",
		"errors":  fields,
	})
}

// HandleQuote prices the current cart with a shipping option.
func (h *CheckoutHandler) HandleQuote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	quote, err := h.service.Quote(middleware.SessionID(c), req.ShippingType)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(quote)
}

// HandleSubmitOrder submits the current cart as an order. The cart is emptied
// only when the order was accepted.
func (h *CheckoutHandler) HandleSubmitOrder(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	confirmation, err := h.service.Submit(c.UserContext(), middleware.SessionID(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Order submitted successfully",
		"confirmation": confirmation,
	})
}
