// Package repository stores board users.
//
// Repository keeps users in PostgreSQL behind a pgx pool and owns the schema
// migrations. MemoryStore keeps them in process for development and tests.
// Both report a missing user as ErrUserNotFound and a taken login as
// ErrLoginExists.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	loginConstraint   = "users_login_key"
)

// PoolConfig sizes the PostgreSQL connection pool.
// Zero fields take the values from DefaultPoolConfig.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	// ConnectTimeout bounds the ping that verifies a new pool.
	ConnectTimeout time.Duration
}

// DefaultPoolConfig suits a single API instance doing one lookup per request.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:        10,
		MinConns:        2,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

func (pc PoolConfig) withDefaults() PoolConfig {
	def := DefaultPoolConfig()
	if pc.MaxConns <= 0 {
		pc.MaxConns = def.MaxConns
	}
	if pc.MinConns <= 0 {
		pc.MinConns = def.MinConns
	}
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	if pc.MaxConnIdleTime <= 0 {
		pc.MaxConnIdleTime = def.MaxConnIdleTime
	}
	if pc.ConnectTimeout <= 0 {
		pc.ConnectTimeout = def.ConnectTimeout
	}
	return pc
}

// Repository is the PostgreSQL user store.
type Repository struct {
	pool *pgxpool.Pool
}

// New connects with DefaultPoolConfig.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	return Open(ctx, databaseURL, DefaultPoolConfig())
}

// Open connects to PostgreSQL and pings it before returning.
func Open(ctx context.Context, databaseURL string, pc PoolConfig) (*Repository, error) {
	pc = pc.withDefaults()

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	cfg.MaxConnIdleTime = pc.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pc.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping reports whether the database answers. Used by the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the pgx pool to migrations and integration tests.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// isLoginTaken reports whether err is a violation of the unique login constraint.
func isLoginTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgUniqueViolation &&
		pgErr.ConstraintName == loginConstraint
}
