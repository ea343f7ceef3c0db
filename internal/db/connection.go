package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the database connection pool
type DB struct {
	pool     *pgxpool.Pool
	url      string
	mu       sync.RWMutex
	sessGUCs []string // applied to every new connection
}

// Options tune a connection
type Options struct {
	// StatementTimeout is enforced server-side on every statement (0 = none)
	StatementTimeout time.Duration
}

// Connect opens a small read-only pool. Every connection starts with
// default_transaction_read_only, so a write that slips past IsWriteQuery is
// still refused by the server.
func Connect(ctx context.Context, url string, opts Options) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	// One query at a time; a couple of connections is plenty
	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute

	db := &DB{
		url:      url,
		sessGUCs: sessionGUCs(opts),
	}

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		db.mu.RLock()
		gucs := db.sessGUCs
		db.mu.RUnlock()

		for _, guc := range gucs {
			if _, err := conn.Exec(ctx, guc); err != nil {
				return fmt.Errorf("failed to set GUC %q on new connection: %w", guc, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.pool = pool

	return db, nil
}

func sessionGUCs(opts Options) []string {
	gucs := []string{"SET default_transaction_read_only = on"}
	if opts.StatementTimeout > 0 {
		gucs = append(gucs, fmt.Sprintf("SET statement_timeout = %d", opts.StatementTimeout.Milliseconds()))
	}
	return gucs
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Query executes a query and returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// URL returns the connection URL
func (db *DB) URL() string {
	return db.url
}
