package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// usersSchema is the minimal schema the auth service owns. The rest of the
// platform schema (courses, tracks, projects) belongs to other services.
const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id               TEXT PRIMARY KEY,
		email            TEXT NOT NULL UNIQUE,
		name             TEXT NOT NULL DEFAULT '',
		learning_type_id BIGINT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// Migrate applies the user store schema. Safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("apply users schema: %w", err)
	}
	return nil
}
