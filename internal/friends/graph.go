package friends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamefriends/backend/internal/models"
	"github.com/gamefriends/backend/internal/repositories"
)

// ErrUserNotFound indicates the request target is not a registered user.
var ErrUserNotFound = errors.New("user not found")

// RelationshipStore persists request rows and friendship rows. Multi-row
// mutations (AcceptRequest, DeleteRelationship) must be atomic: no reader may
// observe only one direction of a friendship applied.
type RelationshipStore interface {
	UpsertRequest(ctx context.Context, from, to, status string, at time.Time) error
	UpdateRequestStatus(ctx context.Context, from, to, status string) error
	AcceptRequest(ctx context.Context, from, to, status string) error
	DeleteRelationship(ctx context.Context, user, friend string) error
	ListIncomingRequests(ctx context.Context, user, status string) ([]string, error)
	ListFriends(ctx context.Context, user string) ([]string, error)
}

// UserFinder checks that a request target exists.
type UserFinder interface {
	FindByName(ctx context.Context, name string) (models.User, error)
}

// Graph owns the friend-request state machine and the symmetric friendship
// relation. It is the only component that mutates request or friendship rows.
type Graph struct {
	store   RelationshipStore
	users   UserFinder
	nowFunc func() time.Time
}

// NewGraph constructs a Graph over the provided stores.
func NewGraph(store RelationshipStore, users UserFinder) *Graph {
	if store == nil || users == nil {
		panic("friends: store and user finder must not be nil")
	}
	return &Graph{
		store:   store,
		users:   users,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest moves the (from, to) pair to pending with a fresh timestamp.
// The transition applies regardless of the pair's history; a request that was
// rejected or even accepted earlier is reopened, and from == to is not special
// cased. The only failure for a registered target is a store error. Friendship
// rows are untouched.
func (g *Graph) SendRequest(ctx context.Context, from, to string) error {
	if _, err := g.users.FindByName(ctx, to); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up request target: %w", err)
	}

	status := Next(StatusNone, EventSend)
	if err := g.store.UpsertRequest(ctx, from, to, string(status), g.nowFunc()); err != nil {
		return fmt.Errorf("store friend request: %w", err)
	}

	return nil
}

// ListIncoming returns the names of users with a pending request to user.
func (g *Graph) ListIncoming(ctx context.Context, user string) ([]string, error) {
	names, err := g.store.ListIncomingRequests(ctx, user, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return names, nil
}

// Accept marks the request from `from` to `user` as accepted and creates the
// friendship in both directions atomically. Accepting a pair that never sent a
// request is a no-op that still succeeds.
func (g *Graph) Accept(ctx context.Context, user, from string) error {
	status := Next(StatusPending, EventAccept)
	if err := g.store.AcceptRequest(ctx, from, user, string(status)); err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}
	return nil
}

// Reject marks the request from `from` to `user` as rejected. The row is kept
// as history until a future resend overwrites it. Friendships are untouched,
// and rejecting an absent pair is a silent no-op.
func (g *Graph) Reject(ctx context.Context, user, from string) error {
	status := Next(StatusPending, EventReject)
	if err := g.store.UpdateRequestStatus(ctx, from, user, string(status)); err != nil {
		return fmt.Errorf("reject friend request: %w", err)
	}
	return nil
}

// Remove resets the relationship between user and friend: friendship rows and
// request rows disappear in both directions within one transaction.
func (g *Graph) Remove(ctx context.Context, user, friend string) error {
	if err := g.store.DeleteRelationship(ctx, user, friend); err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	return nil
}

// ListFriends returns the friendship partners of user. By the symmetry
// invariant the result for A contains B exactly when the result for B contains A.
func (g *Graph) ListFriends(ctx context.Context, user string) ([]string, error) {
	names, err := g.store.ListFriends(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return names, nil
}
