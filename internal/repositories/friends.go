package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gamefriends/backend/internal/db"
)

// PostgresFriendRepository provides PostgreSQL-backed persistence for friend
// requests and the symmetric friendship relation.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// UpsertRequest writes the request row for the ordered (from, to) pair,
// replacing the status and timestamp of any existing row.
func (r *PostgresFriendRepository) UpsertRequest(ctx context.Context, from, to, status string, at time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO friend_requests (from_user, to_user, status, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (from_user, to_user)
        DO UPDATE SET status = EXCLUDED.status, created_at = EXCLUDED.created_at
    `, from, to, status, at.UTC())
	if err != nil {
		return fmt.Errorf("upsert friend request: %w", err)
	}

	return nil
}

// UpdateRequestStatus sets the status of the (from, to) request row. A pair
// with no request row is left untouched and reported as success; callers rely
// on this being a no-op rather than an error.
func (r *PostgresFriendRepository) UpdateRequestStatus(ctx context.Context, from, to, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        UPDATE friend_requests
        SET status = $3
        WHERE from_user = $1 AND to_user = $2
    `, from, to, status)
	if err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}

	return nil
}

// AcceptRequest marks the (from, to) request with the provided status and
// materialises the friendship in both directions. All three writes run in one
// transaction so no reader ever observes a half-applied friendship.
func (r *PostgresFriendRepository) AcceptRequest(ctx context.Context, from, to, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin accept transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        UPDATE friend_requests
        SET status = $3
        WHERE from_user = $1 AND to_user = $2
    `, from, to, status); err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}

	for _, pair := range [][2]string{{to, from}, {from, to}} {
		if _, err := tx.Exec(ctx, `
            INSERT INTO friendships (user_name, friend_name)
            VALUES ($1, $2)
            ON CONFLICT (user_name, friend_name) DO NOTHING
        `, pair[0], pair[1]); err != nil {
			return fmt.Errorf("insert friendship: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accept transaction: %w", err)
	}

	return nil
}

// DeleteRelationship removes the friendship rows and the request rows between
// the two users in both directions, inside a single transaction. Afterwards a
// new request between the pair behaves as if they had never interacted.
func (r *PostgresFriendRepository) DeleteRelationship(ctx context.Context, user, friend string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remove transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        DELETE FROM friendships
        WHERE (user_name = $1 AND friend_name = $2)
           OR (user_name = $2 AND friend_name = $1)
    `, user, friend); err != nil {
		return fmt.Errorf("delete friendships: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        DELETE FROM friend_requests
        WHERE (from_user = $1 AND to_user = $2)
           OR (from_user = $2 AND to_user = $1)
    `, user, friend); err != nil {
		return fmt.Errorf("delete friend requests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove transaction: %w", err)
	}

	return nil
}

// ListIncomingRequests returns the senders of requests to the user that
// currently carry the provided status.
func (r *PostgresFriendRepository) ListIncomingRequests(ctx context.Context, user, status string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT from_user
        FROM friend_requests
        WHERE to_user = $1 AND status = $2
        ORDER BY from_user
    `, user, status)
	if err != nil {
		return nil, fmt.Errorf("query incoming requests: %w", err)
	}
	defer rows.Close()

	return scanNames(rows)
}

func scanNames(rows pgx.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}

// ListFriends returns the friendship partners of the user.
func (r *PostgresFriendRepository) ListFriends(ctx context.Context, user string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT friend_name
        FROM friendships
        WHERE user_name = $1
        ORDER BY friend_name
    `, user)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	return scanNames(rows)
}
