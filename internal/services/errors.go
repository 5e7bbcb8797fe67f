package services

import (
	"errors"

	"storefront/pkg/apperrors"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	orderFailureMessage   = "Failed to submit order. Please try again or contact us directly."
	contactFailureMessage = "Failed to send message. Please try again later."
)

func newValidationError(field, tag, message string) error {
	return apperrors.NewValidationError(field, tag, message)
}
