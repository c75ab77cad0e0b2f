package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamefriends/backend/internal/models"
	"github.com/gamefriends/backend/internal/repositories"
)

// ErrUnauthorized indicates a missing, malformed, or unknown bearer token.
var ErrUnauthorized = errors.New("unauthorized")

const bearerPrefix = "Bearer "

// TokenStore resolves bearer tokens to user records.
type TokenStore interface {
	FindByToken(ctx context.Context, token string) (models.User, error)
}

// Authenticator maps an Authorization header value to a registered user.
// It is a pure read against the store; authentication has no side effects.
type Authenticator struct {
	store TokenStore
}

// NewAuthenticator constructs an Authenticator over the provided token store.
func NewAuthenticator(store TokenStore) *Authenticator {
	if store == nil {
		panic("auth: token store must not be nil")
	}
	return &Authenticator{store: store}
}

// Authenticate validates a "Bearer <token>" header value and returns the name
// of the user owning the token.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrUnauthorized
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", ErrUnauthorized
	}

	user, err := a.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("resolve token: %w", err)
	}

	return user.Name, nil
}
