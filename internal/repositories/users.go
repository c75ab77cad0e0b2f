package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gamefriends/backend/internal/db"
	"github.com/gamefriends/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users and
// their presence columns.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record. The insert is a single atomic statement:
// two concurrent registrations of the same name resolve to one success and one
// ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (name, token)
        VALUES ($1, $2)
    `, user.Name, user.Token)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByToken fetches the user owning the provided bearer token.
func (r *PostgresUserRepository) FindByToken(ctx context.Context, token string) (models.User, error) {
	return r.findOne(ctx, `
        SELECT name, token, last_seen, last_ip
        FROM users
        WHERE token = $1
    `, token)
}

// FindByName fetches a user by their unique name.
func (r *PostgresUserRepository) FindByName(ctx context.Context, name string) (models.User, error) {
	return r.findOne(ctx, `
        SELECT name, token, last_seen, last_ip
        FROM users
        WHERE name = $1
    `, name)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, query, arg)

	var (
		user     models.User
		lastSeen sql.NullTime
		lastIP   sql.NullString
	)
	if err := row.Scan(&user.Name, &user.Token, &lastSeen, &lastIP); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	if lastSeen.Valid {
		t := lastSeen.Time.UTC()
		user.LastSeen = &t
	}
	user.LastIP = lastIP.String

	return user, nil
}

// UpdatePresence overwrites the user's last_seen timestamp and last_ip address.
func (r *PostgresUserRepository) UpdatePresence(ctx context.Context, name, ip string, seenAt time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET last_seen = $2, last_ip = $3
        WHERE name = $1
    `, name, seenAt.UTC(), ip)
	if err != nil {
		return fmt.Errorf("update presence: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListFriendPresence returns the presence columns for every friend of the user.
// Filtering by freshness is left to the caller.
func (r *PostgresUserRepository) ListFriendPresence(ctx context.Context, name string) ([]models.FriendPresence, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.name, u.last_ip, u.last_seen
        FROM friendships f
        JOIN users u ON u.name = f.friend_name
        WHERE f.user_name = $1
        ORDER BY u.name
    `, name)
	if err != nil {
		return nil, fmt.Errorf("query friend presence: %w", err)
	}
	defer rows.Close()

	var presences []models.FriendPresence
	for rows.Next() {
		var (
			p        models.FriendPresence
			lastIP   sql.NullString
			lastSeen sql.NullTime
		)
		if err := rows.Scan(&p.Name, &lastIP, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan friend presence: %w", err)
		}
		p.IP = lastIP.String
		if lastSeen.Valid {
			t := lastSeen.Time.UTC()
			p.LastSeen = &t
		}
		presences = append(presences, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend presence: %w", err)
	}

	return presences, nil
}
