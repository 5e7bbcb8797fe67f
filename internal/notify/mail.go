package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MailChannel renders notifications and sends them by email. A notification
// is accepted when the mail provider accepts the email.
type MailChannel struct {
	renderer *Renderer
	mailer   Mailer
	logger   *zap.Logger
}

// NewMailChannel creates a MailChannel.
func NewMailChannel(renderer *Renderer, mailer Mailer, logger *zap.Logger) *MailChannel {
	return &MailChannel{renderer: renderer, mailer: mailer, logger: logger}
}

func (c *MailChannel) Send(ctx context.Context, n Notification) error {
	email, err := c.renderer.Render(n)
	if err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", n.Template, err)
	}
	c.logger.Info("notification email sent",
		zap.String("template", string(n.Template)),
		zap.String("subject", email.Subject),
	)
	return nil
}

// ErrMalformed is returned for broker messages that cannot be decoded into a
// known notification.
var ErrMalformed = errors.New("malformed notification")

// Dispatcher decodes notifications taken off the broker and forwards them to
// a channel, typically a MailChannel.
type Dispatcher struct {
	next   Channel
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(next Channel, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{next: next, logger: logger}
}

// Handle processes one broker message body.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !n.Template.IsValid() {
		return fmt.Errorf("%w: unknown template %q", ErrMalformed, n.Template)
	}
	d.logger.Debug("dispatching notification", zap.String("template", string(n.Template)))
	return d.next.Send(ctx, n)
}
