package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamefriends/backend/internal/models"
	"github.com/gamefriends/backend/internal/repositories"
)

var (
	// ErrNameTaken indicates the requested name is already registered.
	ErrNameTaken = errors.New("name already taken")
	// ErrInvalidName indicates an empty name.
	ErrInvalidName = errors.New("invalid name")
)

// UserStore persists newly registered users.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
}

// Directory registers users and issues their bearer tokens. Names are globally
// unique and immutable; users are never deleted.
type Directory struct {
	users    UserStore
	newToken func() string
}

// New constructs a Directory over the provided user store.
func New(users UserStore) *Directory {
	if users == nil {
		panic("directory: user store must not be nil")
	}
	return &Directory{users: users, newToken: uuid.NewString}
}

// Register creates the user and returns the freshly issued token. The name is
// stored verbatim, whitespace included, so " alice" and "alice" are distinct
// users. The existence check and insert are a single atomic store operation,
// so concurrent registrations of the same name yield exactly one success.
func (d *Directory) Register(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}

	token := d.newToken()
	if err := d.users.Create(ctx, models.User{Name: name, Token: token}); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return "", ErrNameTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return token, nil
}
