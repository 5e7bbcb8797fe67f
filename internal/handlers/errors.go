package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/apperrors"
)

// writeError maps domain errors to HTTP responses.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if ve, ok := apperrors.IsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   ve.Error(),
			"field":   ve.Field,
		})
	}
	if se, ok := apperrors.IsSubmission(err); ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": se.UserMessage,
			"error":   "notification channel did not accept the submission",
		})
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"error":   err.Error(),
		})
	case errors.Is(err, apperrors.ErrEmptyCart):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Your cart is empty. Add some products before checking out.",
			"error":   err.Error(),
		})
	case errors.Is(err, apperrors.ErrSubmissionInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Your previous submission is still being processed.",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   err.Error(),
		})
	}

	logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
