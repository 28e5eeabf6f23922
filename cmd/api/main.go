package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/yoursneaker/storefront/docs/swagger"
	"github.com/yoursneaker/storefront/pkg/app"
	"github.com/yoursneaker/storefront/pkg/auth"
	"github.com/yoursneaker/storefront/pkg/cache"
	"github.com/yoursneaker/storefront/pkg/config"
	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/events"
	"github.com/yoursneaker/storefront/pkg/httpx"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/pkg/telemetry"
	cartApi "github.com/yoursneaker/storefront/services/cart/application/api"
	cartEvents "github.com/yoursneaker/storefront/services/cart/domain/events"
	"github.com/yoursneaker/storefront/services/cart/infrastructure/catalog"
)

// @title				YourSneaker Storefront API
// @version			1.0
// @description		Shopping cart of the YourSneaker storefront.
// @contact.name		YourSneaker Engineering
// @license.name		MIT
// @license.url		https://opensource.org/licenses/MIT
// @host				localhost:8080
// @BasePath			/api
// @schemes			http https
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

	log := logger.New(cfg).With("component", "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting is optional.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer db.Close()
	log.Info("database pool connected")

	// Cart events are written to the outbox inside the repository
	// transaction; the forwarder in this process relays them.
	eventBus, err := events.NewBus(db.DB(), events.BusConfig{
		ConsumerGroup: "storefront-api",
		Outbox:        true,
		Topics:        []string{cartEvents.TopicCartUpdated, cartEvents.TopicCartDeleted},
	}, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.RunForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	sessionStore := auth.NewSessionStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.Environment == config.EnvProduction,
	)

	application := &app.Application{
		Config:       cfg,
		Db:           db,
		Logger:       log,
		EventBus:     eventBus,
		Redis:        redisClient,
		SessionStore: sessionStore,
	}

	r := httpx.NewRouter(httpx.RouterConfig{
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Recovery:           logger.Recovery(log),
		Sentry:             telemetry.SentryMiddleware(),
		Tracing:            otelhttp.NewMiddleware(cfg.ServiceName),
		Logging:            logger.Middleware(log),
	})

	r.Get("/health", httpx.HealthHandler(
		httpx.HealthCheck{Name: "database", Checker: db},
		httpx.HealthCheck{Name: "redis", Checker: redisClient},
		httpx.HealthCheck{Name: "event_bus", Checker: eventBus},
		httpx.HealthCheck{Name: "catalog", Checker: catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)},
	))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var routeErr error
	r.Route("/api", func(r chi.Router) {
		routeErr = registerRoutes(r, application)
	})
	if routeErr != nil {
		log.Error("failed to register routes", "error", routeErr)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

// registerRoutes mounts every bounded context under /api.
func registerRoutes(r chi.Router, a *app.Application) error {
	return cartApi.CartRoutes(r, a)
}
