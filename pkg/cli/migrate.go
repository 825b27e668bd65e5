package cli

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formkit-dev/formkit/pkg/pg"
)

// MigrateCommands builds the standard schema migration commands. The pool is
// resolved lazily so the commands can be registered before the database is
// reachable; connection happens only when a migration command actually runs.
func MigrateCommands(connect func(ctx context.Context) (*pgxpool.Pool, error), cfg pg.Config, log *slog.Logger) []*Command {
	withPool := func(fn func(ctx context.Context, pool *pgxpool.Pool) error) func(ctx context.Context, args []string) error {
		return func(ctx context.Context, _ []string) error {
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			return fn(ctx, pool)
		}
	}

	return []*Command{
		{
			Name:  "migrate:up",
			Usage: "apply all pending schema migrations",
			Run: withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				return pg.Migrate(ctx, pool, cfg, log)
			}),
		},
		{
			Name:  "migrate:down",
			Usage: "roll back the most recent schema migration",
			Run: withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				return pg.MigrateDown(ctx, pool, cfg, log)
			}),
		},
		{
			Name:  "migrate:status",
			Usage: "print the status of all known migrations",
			Run: withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				return pg.MigrationStatus(ctx, pool, cfg, log)
			}),
		},
	}
}
