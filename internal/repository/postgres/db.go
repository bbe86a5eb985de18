package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/repository"
)

// uniqueViolation is the SQLSTATE for duplicate keys
const uniqueViolation = "23505"

// DB wraps the database connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection pool
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Open connects to PostgreSQL, applies migrations when enabled and returns
// the repositories backed by the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	if cfg.AutoMigrate {
		if err := RunMigrations(cfg.DSN(), cfg.MigrationsPath); err != nil {
			return nil, err
		}
	}

	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return repository.NewStore(
		NewUserRepository(db.Pool),
		NewMessageRepository(db.Pool),
		NewProgressRepository(db.Pool),
		db.Ping,
		func(context.Context) error {
			db.Close()
			return nil
		},
	), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
