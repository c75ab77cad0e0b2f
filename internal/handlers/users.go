package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gamefriends/backend/internal/directory"
	"github.com/gamefriends/backend/internal/logging"
)

// UserHandler implements the registration endpoint.
type UserHandler struct {
	Directory Registrar
	Limiter   RateLimiter
}

// Register handles POST /register requests.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Directory == nil {
		logger.Error("directory unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "registration service unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "register") {
		logger.Warn("registration rate limited", "remote_addr", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many registration attempts"})
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.Directory.Register(ctx, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidName):
			logger.Warn("register missing name")
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		case errors.Is(err, directory.ErrNameTaken):
			logger.Warn("register conflict", "name", req.Name)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "user already exists"})
		default:
			logger.Error("register failed", "error", err, "name", req.Name)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusCreated, registerResponse{Token: token})
}

type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	Token string `json:"token"`
}
