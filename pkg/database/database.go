// Package database owns the Postgres connection pool shared by the cart
// repository and the watermill outbox publisher.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/yoursneaker/storefront/pkg/logger"
)

// Database wraps a pgx pool and a database/sql view of the same pool.
// Generated queries and watermill-sql both speak database/sql.
type Database struct {
	pool *pgxpool.Pool
	db   *sql.DB
	log  logger.Logger
}

// NewPool parses url, opens a pool and pings it before returning.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return FromPool(pool, log), nil
}

// FromPool wraps an already opened pool.
func FromPool(pool *pgxpool.Pool, log logger.Logger) *Database {
	return &Database{pool: pool, db: stdlib.OpenDBFromPool(pool), log: log}
}

// DB returns the database/sql handle backed by the pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Pool returns the underlying pgx pool.
func (d *Database) Pool() *pgxpool.Pool {
	return d.pool
}

// Ping implements httpx.HealthChecker.
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the sql handle and the pool.
func (d *Database) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Warn("closing sql handle", "error", err)
	}
	d.pool.Close()
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including on panic.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
