package models

import "time"

// User is a registered account in the friends directory. The token is an
// opaque bearer capability assigned once at registration and never rotated.
// LastSeen and LastIP stay empty until the first status report.
type User struct {
	Name     string
	Token    string
	LastSeen *time.Time
	LastIP   string
}

// FriendRequest tracks the invitation workflow for an ordered (from, to) pair.
// At most one row exists per pair; a resend overwrites the row back to pending.
type FriendRequest struct {
	FromUser  string
	ToUser    string
	Status    string
	CreatedAt time.Time
}

// FriendPresence is one friend's presence data as read from the store.
// LastSeen is nil for friends that have never reported a status.
type FriendPresence struct {
	Name     string
	IP       string
	LastSeen *time.Time
}
