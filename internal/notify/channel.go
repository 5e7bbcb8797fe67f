// Package notify delivers order and contact notifications to the outside world.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Template selects how a notification is rendered.
type Template string

const (
	TemplateOrder   Template = "order"
	TemplateContact Template = "contact"
)

// IsValid checks if the template is known.
func (t Template) IsValid() bool {
	return t == TemplateOrder || t == TemplateContact
}

// Notification is a structured payload plus the template that renders it.
type Notification struct {
	Template Template        `json:"template"`
	Payload  json.RawMessage `json:"payload"`
}

// Channel accepts notifications. Send returns nil once the channel has accepted
// the notification; any error means it was not accepted.
type Channel interface {
	Send(ctx context.Context, n Notification) error
}

// LogChannel accepts every notification and only logs it.
type LogChannel struct {
	logger *zap.Logger
}

// NewLogChannel creates a LogChannel.
func NewLogChannel(logger *zap.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

// Send logs the notification.
func (c *LogChannel) Send(ctx context.Context, n Notification) error {
	if !n.Template.IsValid() {
		return fmt.Errorf("unknown notification template %q", n.Template)
	}
	c.logger.Info("notification accepted",
		zap.String("template", string(n.Template)),
		zap.ByteString("payload", n.Payload),
	)
	return nil
}
