package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/categories", h.HandleCategories)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// HandleListProducts lists products filtered by category, series and a free-text query.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.List(services.ListOptions{
		Category: c.Query("category"),
		Series:   c.Query("series"),
		Query:    c.Query("q"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	cats, err := h.service.Categories()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(cats)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.Get(c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(product)
}
