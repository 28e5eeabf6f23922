package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/database/databasetest"
)

func countCarts(t *testing.T, db *database.Database, id uuid.UUID) int {
	t.Helper()
	var n int
	err := db.DB().QueryRowContext(context.Background(), `SELECT count(*) FROM cart.carts WHERE id = $1`, id).Scan(&n)
	require.NoError(t, err)
	return n
}

func insertCart(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO cart.carts (id, customer_id) VALUES ($1, $2)`, id, uuid.New())
	return err
}

func TestWithTx(t *testing.T) {
	db := databasetest.Start(t)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		id := uuid.New()
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			return insertCart(ctx, tx, id)
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countCarts(t, db, id))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		id := uuid.New()
		sentinel := errors.New("stop")
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			require.NoError(t, insertCart(ctx, tx, id))
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 0, countCarts(t, db, id))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		id := uuid.New()
		assert.Panics(t, func() {
			_ = db.WithTx(ctx, func(tx *sql.Tx) error {
				require.NoError(t, insertCart(ctx, tx, id))
				panic("boom")
			})
		})
		assert.Equal(t, 0, countCarts(t, db, id))
	})

	require.NoError(t, db.Ping(ctx))
}
