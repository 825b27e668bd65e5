package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// logger is the subset of slog used by migration routines, so tests can pass
// a recorder and goose output lands in structured logs instead of stdout.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Migrate applies every pending migration in cfg.MigrationsPath.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log logger) error {
	return withGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, cfg.MigrationsPath)
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool, cfg Config, log logger) error {
	return withGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, cfg.MigrationsPath)
	})
}

// MigrationStatus logs the status of every known migration.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, cfg Config, log logger) error {
	return withGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, cfg.MigrationsPath)
	})
}

// withGoose bridges the pgx pool to the database/sql interface goose
// requires, configures goose, and runs fn against the wrapped handle.
func withGoose(ctx context.Context, pool *pgxpool.Pool, cfg Config, log logger, fn func(*sql.DB) error) error {
	if cfg.MigrationsPath == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationPathNotProvided)
	}
	if _, err := os.Stat(cfg.MigrationsPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Join(ErrMigrationsDirNotFound, err)
		}
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	// The wrapper shares the pool's connections while exposing the stdlib
	// interface goose expects.
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration db handle", "error", err)
		}
	}()

	goose.SetLogger(gooseLogger{log: log})
	goose.SetTableName(cfg.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := fn(db); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// gooseLogger routes goose's printf-style output through structured logging.
type gooseLogger struct {
	log logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
