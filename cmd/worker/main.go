package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yoursneaker/storefront/pkg/app"
	"github.com/yoursneaker/storefront/pkg/cache"
	"github.com/yoursneaker/storefront/pkg/config"
	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/events"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/pkg/telemetry"
	pkgworkflows "github.com/yoursneaker/storefront/pkg/workflows"
	appsvcs "github.com/yoursneaker/storefront/services/cart/application/services"
	cartworkflows "github.com/yoursneaker/storefront/services/cart/application/workflows"
	cartEvents "github.com/yoursneaker/storefront/services/cart/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close()

	// Expire deletes carts through the repository, which needs the outbox
	// topics; the api process forwards them.
	eventBus, err := events.NewBus(db.DB(), events.BusConfig{
		ConsumerGroup: "storefront-worker",
		Outbox:        true,
		Topics:        []string{cartEvents.TopicCartUpdated, cartEvents.TopicCartDeleted},
	}, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck

	temporalClient, err := pkgworkflows.Dial(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	if err != nil {
		log.Error("failed to connect to temporal", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer temporalClient.Close()

	application := &app.Application{
		Config:         cfg,
		Db:             db,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}

	svcs, err := appsvcs.New(application)
	if err != nil {
		log.Error("failed to build cart services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := registerSubscribers(ctx, application, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	w := temporalClient.NewWorker(cfg.TemporalTaskQueue)
	cartworkflows.Register(w, svcs.Cart)
	if err := w.Start(); err != nil {
		log.Error("failed to start temporal worker", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer w.Stop()
	log.Info("worker started", "task_queue", cfg.TemporalTaskQueue)

	<-ctx.Done()

	// Deferred Close calls wait for in-flight handlers.
	log.Info("shutting down worker...")
}

// registerSubscribers wires the cart event handlers. Handlers must be
// idempotent; the bus retries them and then redelivers.
func registerSubscribers(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	handlers := map[string]events.Handler{
		cartEvents.TopicCartUpdated: handleCartUpdated(a, svcs),
		cartEvents.TopicCartDeleted: handleCartDeleted(a, svcs),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleCartUpdated refreshes the cached cart and restarts its abandonment timer.
func handleCartUpdated(a *app.Application, svcs *appsvcs.Services) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[cartEvents.CartUpdatedEvent](msg)
		if err != nil {
			return err
		}

		// Cache warming is best-effort.
		if err := svcs.Cart.Refresh(ctx, evt.CustomerID); err != nil {
			a.Logger.WarnContext(ctx, "cart cache refresh failed", "cart_id", evt.CartID, "error", err)
		}

		if err := cartworkflows.TouchCart(ctx, a.TemporalClient, a.Config.TemporalTaskQueue, evt.CartID, a.Config.CartAbandonTTL); err != nil {
			return err
		}
		a.Logger.DebugContext(ctx, "cart touched", "cart_id", evt.CartID, "items", evt.ItemCount)
		return nil
	}
}

// handleCartDeleted drops the cached cart.
func handleCartDeleted(a *app.Application, svcs *appsvcs.Services) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[cartEvents.CartDeletedEvent](msg)
		if err != nil {
			return err
		}
		if err := svcs.Cart.Forget(ctx, evt.CustomerID); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "cart cache invalidated", "cart_id", evt.CartID)
		return nil
	}
}
