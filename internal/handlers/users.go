package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/youtweet/backend/internal/auth"
)

// UserHandler implements profile endpoints for the authenticated user.
type UserHandler struct {
	Users   UserStore
	NowFunc func() time.Time
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// Me handles GET /api/v1/users/me.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to load profile")
		return
	}

	respond(ctx, w, http.StatusOK, user, "profile fetched")
}

// UpdateProfile handles PATCH /api/v1/users/me.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FullName == nil && req.Email == nil {
		respondError(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to load profile")
		return
	}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			respondError(ctx, w, http.StatusBadRequest, "full name must not be empty")
			return
		}
		user.FullName = fullName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid email address")
			return
		}
		user.Email = email
	}
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		respondStoreError(ctx, w, err, "email already registered")
		return
	}

	respond(ctx, w, http.StatusOK, user, "profile updated")
}

// WatchHistory handles GET /api/v1/users/me/history, most recent first.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	history, err := h.Users.WatchHistory(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to load watch history")
		return
	}

	respond(ctx, w, http.StatusOK, history, "watch history fetched")
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
