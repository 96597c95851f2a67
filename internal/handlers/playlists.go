package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

// PlaylistHandler implements playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	NowFunc   func() time.Time
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID := auth.UserIDFromContext(ctx)
	if ownerID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondStoreError(ctx, w, err, "unable to create playlist")
		return
	}

	respond(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// Get handles GET /api/v1/playlists/{playlistID}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID, err := query.ParseID(r.PathValue("playlistID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid playlist id")
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respond(ctx, w, http.StatusOK, playlist, "playlist fetched")
}

// ListForUser handles GET /api/v1/users/{userID}/playlists.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := query.ParseID(r.PathValue("userID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid user id")
		return
	}

	playlists, err := h.Playlists.ListForUser(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list playlists")
		return
	}

	respond(ctx, w, http.StatusOK, playlists, "playlists fetched")
}

// AddVideo handles POST /api/v1/playlists/{playlistID}/videos/{videoID}. A
// video already in the playlist is a conflict, not a duplicate entry.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, ok := h.ownedPlaylistAndVideo(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		respondStoreError(ctx, w, err, "unable to add video to playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "video added to playlist")
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistID}/videos/{videoID}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, ok := h.ownedPlaylistAndVideo(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		respondStoreError(ctx, w, err, "unable to remove video from playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

// Delete handles DELETE /api/v1/playlists/{playlistID}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondStoreError(ctx, w, err, "unable to delete playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "playlist deleted")
}

func (h PlaylistHandler) ownedPlaylistAndVideo(w http.ResponseWriter, r *http.Request) (models.Playlist, string, bool) {
	ctx := r.Context()

	videoID, err := query.ParseID(r.PathValue("videoID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid video id")
		return models.Playlist{}, "", false
	}

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return models.Playlist{}, "", false
	}
	return playlist, videoID, true
}

func (h PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	ctx := r.Context()

	requester := auth.UserIDFromContext(ctx)
	if requester == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Playlist{}, false
	}

	playlistID, err := query.ParseID(r.PathValue("playlistID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid playlist id")
		return models.Playlist{}, false
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load playlist")
		}
		return models.Playlist{}, false
	}

	if playlist.OwnerID != requester {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this playlist")
		return models.Playlist{}, false
	}

	return playlist, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
