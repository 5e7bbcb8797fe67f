package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/validation"
	"storefront/pkg/apperrors"
)

// ContactService forwards contact form messages to the notification channel.
type ContactService struct {
	validate *validator.Validate
	sender   sender
	inflight *inflight
	logger   *zap.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(channel notify.Channel, timeout time.Duration, logger *zap.Logger) *ContactService {
	return &ContactService{
		validate: validation.New(),
		sender:   sender{channel: channel, timeout: timeout, logger: logger},
		inflight: newInflight(),
		logger:   logger,
	}
}

// Submit validates and sends a contact message.
func (s *ContactService) Submit(ctx context.Context, sessionID string, msg models.ContactMessage) error {
	release, err := s.inflight.acquire(sessionID)
	if err != nil {
		return err
	}
	defer release()

	msg.Normalize()
	if err := validation.First(s.validate, msg); err != nil {
		return err
	}

	n, err := notify.NewContactNotification(msg)
	if err != nil {
		return &apperrors.SubmissionError{Op: "contact", UserMessage: contactFailureMessage, Err: err}
	}
	if err := s.sender.send(ctx, "contact", contactFailureMessage, n); err != nil {
		return err
	}

	s.logger.Info("contact message submitted", zap.Int("message_length", len(msg.Message)))
	return nil
}
