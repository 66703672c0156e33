package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"voicegateway/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names, per tenant-environment
// (dev_/test_/prod_), grounded on the teacher's NewTableNames.
type TableNames struct {
	Tenants      string
	Orders       string
	Reservations string
	WebhookEvents string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Tenants:       fmt.Sprintf("%stenants", prefix),
		Orders:        fmt.Sprintf("%sorders", prefix),
		Reservations:  fmt.Sprintf("%sreservations", prefix),
		WebhookEvents: fmt.Sprintf("%swebhook_events", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool, auto-detecting a
// transaction-pooling proxy (PgBouncer-style, port 6543) and switching off
// prepared statements in that case to avoid "prepared statement already
// exists" errors, while preserving JSONB encoding via the describe-cache
// mode instead of falling back to the simple protocol.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for pooled connection", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction in ctx if present, otherwise the
// pool, so repositories transparently participate in an enclosing
// transaction without threading one through every call explicitly.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
