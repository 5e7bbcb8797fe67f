package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/services"
)

// Deps are the collaborators the HTTP app is built from.
type Deps struct {
	Logger   *zap.Logger
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Orders   *services.OrderService
	Contact  *services.ContactService
	Auth     *services.AuthService
	Sessions *session.Store

	// Transport and MissingSettings feed the health endpoints.
	Transport       string
	MissingSettings func() []string

	AccessLog bool
}

// NewApp builds the Fiber app with every route under /api/v1.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: errorHandler(d.Logger),
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}

	missing := d.MissingSettings
	if missing == nil {
		missing = func() []string { return nil }
	}
	health := handlers.NewHealthHandler(d.Transport, missing)
	health.RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	health.RegisterRoutes(apiV1)
	handlers.NewAuthHandler(d.Auth, d.Logger).RegisterRoutes(apiV1)
	handlers.NewProductHandler(d.Catalog, d.Logger).RegisterRoutes(apiV1)

	// Cart, checkout and contact all act on the browser session.
	sessionRoutes := apiV1.Group("", middleware.CartSession(d.Sessions, d.Logger))
	handlers.NewCartHandler(d.Cart, d.Logger).RegisterRoutes(sessionRoutes)
	handlers.NewCheckoutHandler(d.Orders, d.Logger).RegisterRoutes(sessionRoutes)
	handlers.NewContactHandler(d.Contact, d.Logger).RegisterRoutes(sessionRoutes)

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
