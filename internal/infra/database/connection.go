package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// Pool is satisfied by *pgxpool.Pool and by pgxmock pools.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const defaultMaxConns = 10

// NewPool builds the connection pool without dialing. Connectivity problems
// surface on first use so the server can start and report them on /api/health.
func NewPool(ctx context.Context, connString string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return pool, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS leads (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL UNIQUE,
	website      TEXT,
	company_name TEXT,
	company_size TEXT,
	industry     TEXT,
	country      TEXT,
	score        INTEGER NOT NULL DEFAULT 0,
	qualified    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_leads_qualified_score ON leads(qualified, score DESC);
`

// Migrate creates the leads table and its indexes. It is idempotent.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, migration); err != nil {
		return classify(err, "postgres: migrate")
	}
	return nil
}

// MigrateWhenReady runs Migrate, retrying every interval while the database
// is unreachable. Any other failure is returned at once. It blocks until the
// schema exists or ctx is done.
func MigrateWhenReady(ctx context.Context, pool Pool, interval time.Duration, logger *zap.Logger) error {
	for attempt := 1; ; attempt++ {
		err := Migrate(ctx, pool)
		if err == nil {
			logger.Info("schema migrated", zap.Int("attempt", attempt))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !eris.Is(err, entity.ErrStorageUnavailable) {
			return err
		}

		logger.Warn("database not ready, migration will retry",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", interval),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
