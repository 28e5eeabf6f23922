package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/yoursneaker/storefront/migrations/cart"
	"github.com/yoursneaker/storefront/pkg/config"
	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "migrate")
	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrator.Up(ctx, db.DB(), cart.FS, log); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1) //nolint:gocritic // deferred close is best-effort on failure
	}
}
