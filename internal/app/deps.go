package app

import (
	"time"

	"github.com/gamefriends/backend/internal/auth"
	"github.com/gamefriends/backend/internal/config"
	"github.com/gamefriends/backend/internal/db"
	"github.com/gamefriends/backend/internal/directory"
	"github.com/gamefriends/backend/internal/friends"
	"github.com/gamefriends/backend/internal/handlers"
	"github.com/gamefriends/backend/internal/middleware"
	"github.com/gamefriends/backend/internal/presence"
	"github.com/gamefriends/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) handlers.Dependencies {
	users := repositories.NewPostgresUserRepository(pool)
	relationships := repositories.NewPostgresFriendRepository(pool)

	return handlers.Dependencies{
		Auth:            auth.NewAuthenticator(users),
		Directory:       directory.New(users),
		Presence:        presence.NewTracker(users, cfg.PresenceWindow),
		Friends:         friends.NewGraph(relationships, users),
		RegisterLimiter: middleware.NewIPRateLimiter(cfg.RegisterRate, time.Minute, cfg.RegisterBurst, 10*time.Minute),
	}
}
