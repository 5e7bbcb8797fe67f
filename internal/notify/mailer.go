package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Email is a rendered message ready to be handed to a mail provider.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewResendMailer creates a ResendMailer. A zero timeout means 10 seconds.
func NewResendMailer(baseURL, apiKey string, timeout time.Duration) *ResendMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendMailer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Send posts the email and treats any non-2xx response as a failure.
func (m *ResendMailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(m.baseURL + "/emails")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+m.apiKey)
	agent.JSON(e)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("resend request failed: %w", errs[0])
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("resend returned status %d: %s", code, strings.TrimSpace(string(body)))
	}
	return nil
}

// LogMailer logs emails instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, e Email) error {
	m.logger.Info("email",
		zap.String("from", e.From),
		zap.Strings("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("reply_to", e.ReplyTo),
		zap.Int("html_bytes", len(e.HTML)),
	)
	return nil
}
