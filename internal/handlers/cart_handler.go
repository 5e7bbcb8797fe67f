package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/services"
)

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID     string `json:"productId"`
	SelectedColor string `json:"selectedColor"`
	Quantity      int    `json:"quantity"`
}

// UpdateQuantityRequest is the body of PATCH /cart/items/:key.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	service *services.CartService
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{service: service, logger: logger}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:key", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:key", h.HandleRemoveItem)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	snap, err := h.service.Get(middleware.SessionID(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(snap)
}

// HandleAddItem adds a product variant to the cart. Adding an existing variant
// increments its quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Please choose a product.",
			"field":   "productId",
		})
	}

	snap, err := h.service.AddItem(middleware.SessionID(c), req.ProductID, req.SelectedColor, req.Quantity)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(snap)
}

// HandleUpdateQuantity sets a line item's quantity; zero or less removes it.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Please fill in the quantity.",
			"field":   "quantity",
		})
	}

	snap, err := h.service.UpdateQuantity(middleware.SessionID(c), c.Params("key"), *req.Quantity)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	snap, err := h.service.RemoveItem(middleware.SessionID(c), c.Params("key"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	snap, err := h.service.Clear(middleware.SessionID(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(snap)
}
