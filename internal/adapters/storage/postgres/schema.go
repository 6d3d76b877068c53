package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema replica las tablas del BaaS (favorites, posts, comments, profiles).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL DEFAULT '',
		nickname    TEXT NOT NULL,
		avatar_url  TEXT NOT NULL DEFAULT '',
		avatar_key  TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id      TEXT NOT NULL,
		animal_id    TEXT NOT NULL,
		is_favorite  BOOLEAN NOT NULL DEFAULT TRUE,
		email        TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, animal_id)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		content          TEXT NOT NULL,
		author_id        TEXT NOT NULL,
		author_email     TEXT NOT NULL DEFAULT '',
		author_nickname  TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_author_idx ON posts (author_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id               TEXT PRIMARY KEY,
		post_id          TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		content          TEXT NOT NULL,
		author_id        TEXT NOT NULL,
		author_nickname  TEXT NOT NULL DEFAULT '',
		avatar_url       TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created_at)`,
}

// Migrate crea las tablas si no existen. Idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
