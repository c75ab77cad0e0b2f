package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{Directory: deps.Directory, Limiter: deps.RegisterLimiter}
	presence := PresenceHandler{Auth: deps.Auth, Presence: deps.Presence}
	graph := FriendHandler{Auth: deps.Auth, Friends: deps.Friends}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/register", users.Register)
	mux.HandleFunc("/status", presence.Status)
	mux.HandleFunc("/friends", graph.List)
	mux.HandleFunc("/friends/request", graph.Request)
	mux.HandleFunc("/friends/requests", graph.Incoming)
	mux.HandleFunc("/friends/accept", graph.Accept)
	mux.HandleFunc("/friends/reject", graph.Reject)
	mux.HandleFunc("/friends/remove", graph.Remove)
	mux.HandleFunc("/friends/online", presence.Online)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Auth            Authenticator
	Directory       Registrar
	Presence        PresenceService
	Friends         FriendService
	RegisterLimiter RateLimiter
}
