package handlers

import (
	"context"

	"github.com/gamefriends/backend/internal/models"
)

// Authenticator resolves an Authorization header value to a user name.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (string, error)
}

// Registrar creates user accounts and issues their bearer tokens.
type Registrar interface {
	Register(ctx context.Context, name string) (string, error)
}

// PresenceService records status reports and derives the online-friends view.
type PresenceService interface {
	UpdateStatus(ctx context.Context, user, ip string) error
	OnlineFriends(ctx context.Context, user string) ([]models.FriendPresence, error)
}

// FriendService captures the friend-request and friendship operations
// required by the friend handlers.
type FriendService interface {
	SendRequest(ctx context.Context, from, to string) error
	ListIncoming(ctx context.Context, user string) ([]string, error)
	Accept(ctx context.Context, user, from string) error
	Reject(ctx context.Context, user, from string) error
	Remove(ctx context.Context, user, friend string) error
	ListFriends(ctx context.Context, user string) ([]string, error)
}
