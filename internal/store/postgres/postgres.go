// Package postgres implements the store interfaces on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusswap/campusswap-api/internal/store"
)

const (
	connectTimeout = 10 * time.Second
	queryTimeout   = 5 * time.Second
)

var (
	_ store.UserStore       = (*UserStore)(nil)
	_ store.UniversityStore = (*UniversityStore)(nil)
	_ store.SessionStore    = (*SessionStore)(nil)
	_ store.ItemStore       = (*ItemStore)(nil)
	_ store.TradeStore      = (*TradeStore)(nil)
	_ store.MessageStore    = (*MessageStore)(nil)
	_ store.ReviewStore     = (*ReviewStore)(nil)
	_ store.ReportStore     = (*ReportStore)(nil)
)

// Connect opens a connection pool against databaseURL and verifies it with
// a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// queryContext caps a single statement at queryTimeout.
func queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// translateErr maps driver errors onto the store sentinels. Unknown errors
// pass through for the caller to wrap.
func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}
