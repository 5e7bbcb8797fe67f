package apperrors

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when a checkout is attempted without any line items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrSubmissionInProgress is returned when a session already has a submission awaiting
// the notification channel.
var ErrSubmissionInProgress = errors.New("a submission is already in progress")

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string // JSON name of the offending field, e.g. "zipCode"
	Tag     string // failed rule, e.g. "required"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field, e.Tag)
}

// NewValidationError builds a ValidationError with a human readable message.
func NewValidationError(field, tag, message string) *ValidationError {
	return &ValidationError{Field: field, Tag: tag, Message: message}
}

// SubmissionError wraps a failure to hand a payload to the notification channel.
// UserMessage is safe to show to end users; Err carries the internal cause.
type SubmissionError struct {
	Op          string
	UserMessage string
	Err         error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: submission failed", e.Op)
	}
	return fmt.Sprintf("%s: submission failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsSubmission reports whether err carries a *SubmissionError and returns it.
func IsSubmission(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
