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

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Options{Service: "storefront-api", Env: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	api, err := app.NewAPI(cfg, log)
	if err != nil {
		return err
	}

	log.Info("storefront starting",
		zap.String("transport", cfg.Notify.Transport),
		zap.String("database", cfg.Database.Driver),
	)
	if err := api.Run(ctx); err != nil {
		return err
	}
	log.Info("server gracefully stopped")
	return nil
}
