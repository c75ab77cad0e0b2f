package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gamefriends/backend/internal/friends"
	"github.com/gamefriends/backend/internal/logging"
)

// FriendHandler implements the friend-request and friendship endpoints.
type FriendHandler struct {
	Auth    Authenticator
	Friends FriendService
}

// Request handles POST /friends/request requests.
func (h FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, friend, ok := h.mutationInputs(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := h.Friends.SendRequest(ctx, user, friend); err != nil {
		switch {
		case errors.Is(err, friends.ErrUserNotFound):
			logger.Warn("friend request to unknown user", "user", user, "friend", friend)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "friend not found"})
		default:
			logger.Error("friend request failed", "error", err, "user", user)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to send friend request"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend request sent"})
}

// Incoming handles GET /friends/requests requests.
func (h FriendHandler) Incoming(w http.ResponseWriter, r *http.Request) {
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

	if h.Friends == nil {
		logger.Error("friend graph unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	names, err := h.Friends.ListIncoming(ctx, user)
	if err != nil {
		logger.Error("incoming requests lookup failed", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list friend requests"})
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, incomingRequestsResponse{IncomingRequests: names})
}

// Accept handles POST /friends/accept requests.
func (h FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, friend, ok := h.mutationInputs(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ctx, span := logging.StartSpan(ctx, "accept-friend-request")
	err := h.Friends.Accept(ctx, user, friend)
	span.End()
	if err != nil {
		logger.Error("accept friend request failed", "error", err, "user", user, "friend", friend)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to accept friend request"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend request accepted"})
}

// Reject handles POST /friends/reject requests.
func (h FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, friend, ok := h.mutationInputs(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := h.Friends.Reject(ctx, user, friend); err != nil {
		logger.Error("reject friend request failed", "error", err, "user", user, "friend", friend)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to reject friend request"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend request rejected"})
}

// Remove handles POST /friends/remove requests.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, friend, ok := h.mutationInputs(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := h.Friends.Remove(ctx, user, friend); err != nil {
		logger.Error("remove friend failed", "error", err, "user", user, "friend", friend)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to remove friend"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend removed"})
}

// List handles GET /friends requests.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
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

	if h.Friends == nil {
		logger.Error("friend graph unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	names, err := h.Friends.ListFriends(ctx, user)
	if err != nil {
		logger.Error("friends lookup failed", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list friends"})
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, friendsResponse{Friends: names})
}

// mutationInputs performs the shared prologue of the POST endpoints: method
// guard, bearer authentication, dependency check, and decoding the {"friend"}
// payload.
func (h FriendHandler) mutationInputs(w http.ResponseWriter, r *http.Request) (user, friend string, ok bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return "", "", false
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, authOK := authorizedUser(w, r, h.Auth)
	if !authOK {
		return "", "", false
	}

	if h.Friends == nil {
		logger.Error("friend graph unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return "", "", false
	}

	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend payload", "error", err, "user", user)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", "", false
	}

	if req.Friend == "" {
		logger.Warn("friend payload missing name", "user", user)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "friend is required"})
		return "", "", false
	}

	return user, req.Friend, true
}

type friendRequest struct {
	Friend string `json:"friend"`
}

type incomingRequestsResponse struct {
	IncomingRequests []string `json:"incoming_requests"`
}

type friendsResponse struct {
	Friends []string `json:"friends"`
}
