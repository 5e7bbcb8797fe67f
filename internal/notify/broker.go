package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// RoutingKeyPrefix prefixes every routing key published by BrokerChannel.
const RoutingKeyPrefix = "notification."

// Publisher publishes a message and returns once the broker confirmed it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// BrokerChannel hands notifications to a message broker. A notification is
// accepted when the broker confirms the publish.
type BrokerChannel struct {
	publisher Publisher
}

// NewBrokerChannel creates a BrokerChannel.
func NewBrokerChannel(p Publisher) *BrokerChannel {
	return &BrokerChannel{publisher: p}
}

// RoutingKey returns the routing key used for a template.
func RoutingKey(t Template) string {
	return RoutingKeyPrefix + string(t)
}

// Send publishes the encoded notification.
func (c *BrokerChannel) Send(ctx context.Context, n Notification) error {
	if !n.Template.IsValid() {
		return fmt.Errorf("unknown notification template %q", n.Template)
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := c.publisher.Publish(ctx, RoutingKey(n.Template), body); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", n.Template, err)
	}
	return nil
}
