package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schema mirrors the SQLite schema with PostgreSQL types.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		created_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS lists (
		id TEXT PRIMARY KEY,
		owner_id TEXT REFERENCES users(id) ON DELETE CASCADE,
		created_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		text TEXT NOT NULL CHECK (text <> ''),
		UNIQUE (list_id, text)
	)`,

	`CREATE TABLE IF NOT EXISTS list_shares (
		list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (list_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS login_tokens (
		hash TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lists_owner_id ON lists(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_list_id ON items(list_id)`,
	`CREATE INDEX IF NOT EXISTS idx_list_shares_user_id ON list_shares(user_id)`,
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, q := range schema {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
