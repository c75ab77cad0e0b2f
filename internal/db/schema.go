package db

import (
	"context"
	"fmt"
)

// The persisted schema is fixed: three tables, created idempotently at startup.
// There is no migration history; re-running the DDL is always safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        name TEXT PRIMARY KEY,
        token TEXT NOT NULL UNIQUE,
        last_seen TIMESTAMPTZ,
        last_ip TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
        from_user TEXT NOT NULL,
        to_user TEXT NOT NULL,
        status TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (from_user, to_user)
    )`,
	`CREATE TABLE IF NOT EXISTS friendships (
        user_name TEXT NOT NULL,
        friend_name TEXT NOT NULL,
        PRIMARY KEY (user_name, friend_name)
    )`,
	`CREATE INDEX IF NOT EXISTS friend_requests_to_user_status_idx
        ON friend_requests (to_user, status)`,
}

// EnsureSchema creates the service's tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
