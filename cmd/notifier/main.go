// Command notifier consumes order and contact notifications from RabbitMQ and
// delivers them by email.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "notifier: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Service: "storefront-notifier", Env: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "notifier: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := app.RunNotifier(ctx, cfg, log); err != nil {
		log.Error("notifier stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("notifier stopped")
}
