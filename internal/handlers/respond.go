package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gamefriends/backend/internal/auth"
	"github.com/gamefriends/backend/internal/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// authorizedUser resolves the caller's bearer token, writing the error
// response itself when authentication fails.
func authorizedUser(w http.ResponseWriter, r *http.Request, authn Authenticator) (string, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if authn == nil {
		logger.Error("authenticator unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authentication service unavailable"})
		return "", false
	}

	user, err := authn.Authenticate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			logger.Warn("rejected request with invalid bearer token")
			respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		} else {
			logger.Error("token lookup failed", "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to verify token"})
		}
		return "", false
	}

	return user, true
}
