package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gamefriends/backend/internal/logging"
	"github.com/gamefriends/backend/internal/presence"
)

// PresenceHandler implements status reporting and the online-friends view.
type PresenceHandler struct {
	Auth     Authenticator
	Presence PresenceService
}

// Status handles POST /status requests.
func (h PresenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := authorizedUser(w, r, h.Auth)
	if !ok {
		return
	}

	if h.Presence == nil {
		logger.Error("presence tracker unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "presence service unavailable"})
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid status payload", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.Presence.UpdateStatus(ctx, user, req.IP); err != nil {
		if errors.Is(err, presence.ErrEmptyAddress) {
			logger.Warn("status update without address", "user", user)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "ip is required"})
			return
		}
		logger.Error("status update failed", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Online handles GET /friends/online requests.
func (h PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := authorizedUser(w, r, h.Auth)
	if !ok {
		return
	}

	if h.Presence == nil {
		logger.Error("presence tracker unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "presence service unavailable"})
		return
	}

	ctx, span := logging.StartSpan(ctx, "online-friends")
	friends, err := h.Presence.OnlineFriends(ctx, user)
	span.End()
	if err != nil {
		logger.Error("online friends lookup failed", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list online friends"})
		return
	}

	online := make([]onlineFriend, 0, len(friends))
	for _, friend := range friends {
		entry := onlineFriend{Name: friend.Name, IP: friend.IP}
		if friend.LastSeen != nil {
			entry.LastSeen = friend.LastSeen.UTC()
		}
		online = append(online, entry)
	}

	respondJSON(ctx, w, http.StatusOK, onlineFriendsResponse{OnlineFriends: online})
}

type statusUpdateRequest struct {
	IP string `json:"ip"`
}

type onlineFriend struct {
	Name     string    `json:"name"`
	IP       string    `json:"ip"`
	LastSeen time.Time `json:"last_seen"`
}

type onlineFriendsResponse struct {
	OnlineFriends []onlineFriend `json:"online_friends"`
}
