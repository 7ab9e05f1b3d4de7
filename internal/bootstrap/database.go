package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clario/auth-api/config"
	"github.com/clario/auth-api/internal/data"
)

// ConnectUserStore opens the user store connection pool and applies the
// schema when configured to do so.
func ConnectUserStore(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.RunMigrationsOnStart {
		if err := data.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		if logger != nil {
			logger.Info("user store migrations applied")
		}
	}

	return pool, nil
}
