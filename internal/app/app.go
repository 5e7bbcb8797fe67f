// Package app wires configuration, storage, notification transport and the
// HTTP server into runnable processes.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

const shutdownTimeout = 5 * time.Second

// API is the storefront HTTP process.
type API struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	carts  *repositories.MemoryCartRepository
	broker *rabbitmq.Client
	mail   *notify.MailChannel
	Fiber  *fiber.App
}

// OpenDatabase connects GORM to the configured driver and migrates the schema.
func OpenDatabase(cfg config.DatabaseConfig, production bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	level := gormlogger.Warn
	if production {
		level = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewMailChannel builds the channel that renders and emails notifications.
func NewMailChannel(cfg *config.Config, logger *zap.Logger) *notify.MailChannel {
	var mailer notify.Mailer
	switch cfg.Mail.Provider {
	case config.MailLog:
		mailer = notify.NewLogMailer(logger)
	default:
		mailer = notify.NewResendMailer(cfg.Mail.ResendURL, cfg.Mail.ResendAPIKey, cfg.Notify.Timeout)
	}
	renderer := notify.NewRenderer(notify.Addresses{
		OrdersFrom:  cfg.Mail.OrdersFrom,
		ContactFrom: cfg.Mail.ContactFrom,
		To:          cfg.Mail.To,
	})
	return notify.NewMailChannel(renderer, mailer, logger)
}

// NewBroker connects to RabbitMQ with the notification topology.
func NewBroker(cfg *config.Config, logger *zap.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(rabbitmq.Config{
		URL:         cfg.RabbitMQ.URL,
		Exchange:    cfg.RabbitMQ.Exchange,
		Queue:       cfg.RabbitMQ.Queue,
		RoutingKeys: []string{notify.RoutingKeyPrefix + "*"},
	}, logger)
}

// NewAPI builds the HTTP process from configuration.
func NewAPI(cfg *config.Config, logger *zap.Logger) (*API, error) {
	db, err := OpenDatabase(cfg.Database, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	carts := repositories.NewMemoryCartRepository()

	products, err := catalog.Load(cfg.Shop.CatalogFile)
	if err != nil {
		return nil, err
	}
	if err := catalog.Seed(productRepo, products); err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.Int("products", len(products)))

	a := &API{cfg: cfg, logger: logger, db: db, carts: carts}

	channel, err := a.channel()
	if err != nil {
		return nil, err
	}
	if missing := cfg.MissingMailSettings(); cfg.SendsMailInProcess() && len(missing) > 0 {
		logger.Warn("mail settings incomplete, notifications will fail", zap.Strings("missing", missing))
	}

	composer := checkout.NewComposer(checkout.WithOrderPrefix(cfg.Shop.OrderNumberPrefix))
	a.Fiber = server.NewApp(server.Deps{
		Logger:          logger,
		Catalog:         services.NewCatalogService(productRepo),
		Cart:            services.NewCartService(carts, productRepo),
		Orders:          services.NewOrderService(carts, composer, channel, cfg.Notify.Timeout, logger),
		Contact:         services.NewContactService(channel, cfg.Notify.Timeout, logger),
		Auth:            services.NewAuthService(userRepo, cfg.JWTSecret, logger),
		Sessions:        middleware.NewSessionStore(cfg.Shop.SessionTTL, cfg.IsProduction()),
		Transport:       cfg.Notify.Transport,
		MissingSettings: cfg.MissingMailSettings,
		AccessLog:       true,
	})
	return a, nil
}

func (a *API) channel() (notify.Channel, error) {
	switch a.cfg.Notify.Transport {
	case config.TransportLog:
		return notify.NewLogChannel(a.logger), nil
	case config.TransportAMQP:
		broker, err := NewBroker(a.cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.broker = broker
		if a.cfg.Notify.Embedded {
			a.mail = NewMailChannel(a.cfg, a.logger)
		}
		return notify.NewBrokerChannel(broker), nil
	default:
		a.mail = NewMailChannel(a.cfg, a.logger)
		return a.mail, nil
	}
}

// Run serves HTTP until ctx is done, alongside the cart janitor and, when
// enabled, the embedded notification consumer.
func (a *API) Run(ctx context.Context) error {
	defer a.close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting server", zap.String("addr", a.cfg.Port))
		if err := a.Fiber.Listen(a.cfg.Port); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down server")
		return a.Fiber.ShutdownWithTimeout(shutdownTimeout)
	})

	g.Go(func() error {
		RunJanitor(ctx, a.carts, a.cfg.Shop.SessionTTL, a.logger)
		return nil
	})

	if a.broker != nil && a.mail != nil {
		g.Go(func() error {
			consumer, err := NewBroker(a.cfg, a.logger.Named("consumer"))
			if err != nil {
				return err
			}
			defer consumer.Close()
			return consumer.Consume(ctx, consumeHandler(notify.NewDispatcher(a.mail, a.logger)))
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *API) close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.logger.Warn("failed to close RabbitMQ client", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// RunJanitor drops carts idle for longer than ttl until ctx is done.
func RunJanitor(ctx context.Context, carts repositories.CartRepository, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(janitorInterval(ttl))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := carts.Prune(now.Add(-ttl)); n > 0 {
				logger.Info("pruned idle carts", zap.Int("count", n))
			}
		}
	}
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		return time.Second
	}
	if interval > 10*time.Minute {
		return 10 * time.Minute
	}
	return interval
}
