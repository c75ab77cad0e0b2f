package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamefriends/backend/internal/models"
)

// DefaultWindow is how recently a friend must have reported a status to count
// as online.
const DefaultWindow = 60 * time.Second

// ErrEmptyAddress indicates a status update without a network address.
var ErrEmptyAddress = errors.New("address must not be empty")

// Store persists presence data and reads back the presence of a user's friends.
type Store interface {
	UpdatePresence(ctx context.Context, name, ip string, seenAt time.Time) error
	ListFriendPresence(ctx context.Context, name string) ([]models.FriendPresence, error)
}

// Tracker records status reports and computes the online-friends view. The
// view is derived on demand from stored timestamps; there is no background
// sweep and no cached online flag.
type Tracker struct {
	store   Store
	window  time.Duration
	nowFunc func() time.Time
}

// NewTracker constructs a Tracker with the provided freshness window. A
// non-positive window falls back to DefaultWindow.
func NewTracker(store Store, window time.Duration) *Tracker {
	if store == nil {
		panic("presence: store must not be nil")
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		store:   store,
		window:  window,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// UpdateStatus overwrites the user's last-seen timestamp with the current
// server time and records the supplied address. The address only needs to be
// non-empty; no format validation is applied.
func (t *Tracker) UpdateStatus(ctx context.Context, user, ip string) error {
	if ip == "" {
		return ErrEmptyAddress
	}
	if err := t.store.UpdatePresence(ctx, user, ip, t.nowFunc()); err != nil {
		return fmt.Errorf("update presence: %w", err)
	}
	return nil
}

// OnlineFriends returns the friends of the user whose last status report is
// strictly younger than the window. A friend whose report is exactly as old as
// the window is offline. Result order carries no meaning.
func (t *Tracker) OnlineFriends(ctx context.Context, user string) ([]models.FriendPresence, error) {
	all, err := t.store.ListFriendPresence(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list friend presence: %w", err)
	}

	now := t.nowFunc()
	var online []models.FriendPresence
	for _, friend := range all {
		if friend.LastSeen == nil {
			continue
		}
		if now.Sub(*friend.LastSeen) < t.window {
			online = append(online, friend)
		}
	}

	return online, nil
}
