// Package databasetest starts a throwaway Postgres for integration tests.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/yoursneaker/storefront/migrations/cart"
	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/pkg/migrator"
)

const image = "postgres:17.6-alpine3.22"

// Start runs a Postgres container with the cart schema migrated and returns
// a connected Database. The container is terminated when t finishes.
// Tests are skipped under -short.
func Start(t testing.TB) *database.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, connStr, err := startPostgres(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	db, err := database.NewPool(ctx, connStr, logger.Discard())
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(db.Close)

	if err := migrator.Up(ctx, db.DB(), cart.FS, logger.Discard()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("storefront"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("connection string: %w", err)
	}
	return container, connStr, nil
}
