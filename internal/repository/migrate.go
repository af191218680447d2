package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// gooseUp, gooseReset and openSQLDB are seams for testing without a database.
var (
	openSQLDB = func(pool *pgxpool.Pool) (*sql.DB, func() error) {
		db := stdlib.OpenDBFromPool(pool)
		return db, db.Close
	}
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseReset = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.ResetContext(ctx, db, dir)
	}
)

// Migrate applies all pending schema migrations.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.withGoose(func(db *sql.DB) error {
		if err := gooseUp(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// ResetSchema rolls every migration back and re-applies them.
// Intended for tests; it drops all data.
func (r *Repository) ResetSchema(ctx context.Context) error {
	return r.withGoose(func(db *sql.DB) error {
		if err := gooseReset(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("reset migrations: %w", err)
		}
		if err := gooseUp(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// withGoose exposes the pool as a database/sql handle configured for goose.
func (r *Repository) withGoose(fn func(db *sql.DB) error) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db, closeDB := openSQLDB(r.pool)
	defer closeDB()

	return fn(db)
}
