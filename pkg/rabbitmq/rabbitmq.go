package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNotConfirmed is returned when the broker nacks a published message.
var ErrNotConfirmed = errors.New("rabbitmq: message was not confirmed by the broker")

// ErrUnprocessable marks a handler failure that retrying cannot fix. Such
// messages are dropped instead of requeued.
var ErrUnprocessable = errors.New("rabbitmq: message cannot be processed")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger

	// mu serializes publishes so that every confirmation maps to one message.
	mu       sync.Mutex
	confirms chan amqp.Confirmation
	seq      uint64
}

// Config holds RabbitMQ connection details and topology.
type Config struct {
	URL           string
	Exchange      string
	Queue         string
	RoutingKeys   []string
	PrefetchCount int
}

// Handler processes one message body. A nil return acks the message; an error
// wrapping ErrUnprocessable rejects it for good.
type Handler func(ctx context.Context, body []byte) error

// NewClient connects to RabbitMQ, declares the topology and puts the channel
// into confirm mode.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = 1
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Client{cfg: cfg, conn: conn, channel: ch, logger: logger}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	c.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	logger.Info("RabbitMQ client connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)
	return c, nil
}

func (c *Client) declare() error {
	err := c.channel.ExchangeDeclare(
		c.cfg.Exchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", c.cfg.Exchange, err)
	}

	_, err = c.channel.QueueDeclare(
		c.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.cfg.Queue, err)
	}

	for _, key := range c.cfg.RoutingKeys {
		if err := c.channel.QueueBind(c.cfg.Queue, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", c.cfg.Queue, key, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var err error
	if c.channel != nil {
		if cerr := c.channel.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close channel: %w", cerr))
		}
	}
	if c.conn != nil {
		if cerr := c.conn.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close connection: %w", cerr))
		}
	}
	return err
}

// Publish sends a persistent JSON message to the exchange and blocks until the
// broker confirms it or ctx is done.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	c.seq++
	tag := c.seq

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for confirm of message %d: %w", tag, ctx.Err())
		case conf, ok := <-c.confirms:
			if !ok {
				return fmt.Errorf("RabbitMQ channel closed before confirm of message %d", tag)
			}
			// Confirmations left over from an abandoned wait.
			if conf.DeliveryTag < tag {
				continue
			}
			if !conf.Ack {
				return ErrNotConfirmed
			}
			c.logger.Debug("message confirmed",
				zap.String("routing_key", routingKey),
				zap.Uint64("delivery_tag", tag),
			)
			return nil
		}
	}
}

// Consume delivers messages from the queue to handler until ctx is done.
// Failed messages are requeued once; a failed redelivery or an unprocessable
// message is dropped.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	if err := c.channel.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.cfg.Queue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for notifications", zap.String("queue", c.cfg.Queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", c.cfg.Queue)
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, msg amqp.Delivery, handler Handler) {
	log := c.logger.With(
		zap.Uint64("delivery_tag", msg.DeliveryTag),
		zap.String("routing_key", msg.RoutingKey),
	)

	if err := handler(ctx, msg.Body); err != nil {
		requeue := !msg.Redelivered && !errors.Is(err, ErrUnprocessable)
		log.Error("failed to process message", zap.Error(err), zap.Bool("requeue", requeue))
		if nackErr := msg.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		log.Error("failed to ack message", zap.Error(ackErr))
	}
}
