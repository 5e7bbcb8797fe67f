package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/notify"
	"storefront/pkg/rabbitmq"
)

// RunNotifier consumes notifications from RabbitMQ and emails them until ctx is done.
func RunNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if missing := cfg.MissingMailSettings(); len(missing) > 0 {
		logger.Warn("mail settings incomplete, deliveries will fail", zap.Strings("missing", missing))
	}

	broker, err := NewBroker(cfg, logger)
	if err != nil {
		return err
	}
	defer broker.Close()

	dispatcher := notify.NewDispatcher(NewMailChannel(cfg, logger), logger)
	return broker.Consume(ctx, consumeHandler(dispatcher))
}

// consumeHandler adapts a Dispatcher to the broker, rejecting malformed
// messages without requeue.
func consumeHandler(d *notify.Dispatcher) rabbitmq.Handler {
	return func(ctx context.Context, body []byte) error {
		err := d.Handle(ctx, body)
		if errors.Is(err, notify.ErrMalformed) {
			return fmt.Errorf("%w: %w", rabbitmq.ErrUnprocessable, err)
		}
		return err
	}
}
