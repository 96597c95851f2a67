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

// CommentHandler implements the comment endpoints for videos.
type CommentHandler struct {
	Comments CommentStore
	NowFunc  func() time.Time
}

type commentRequest struct {
	Content string `json:"content"`
}

// List handles GET /api/v1/videos/{videoID}/comments. A well formed id with
// no comments, including an id no video carries, yields an empty page.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := query.ParseID(r.PathValue("videoID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid video id")
		return
	}

	page, err := h.Comments.ListForVideo(ctx, videoID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list comments")
		return
	}

	respond(ctx, w, http.StatusOK, page, "comments fetched")
}

// Create handles POST /api/v1/videos/{videoID}/comments.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID := auth.UserIDFromContext(ctx)
	if ownerID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID, err := query.ParseID(r.PathValue("videoID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid video id")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		VideoID:   videoID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respond(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/{commentID}. Only the owner may edit.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	comment.Content = content
	comment.UpdatedAt = h.now()

	if err := h.Comments.Update(ctx, comment); err != nil {
		respondStoreError(ctx, w, err, "unable to update comment")
		return
	}

	respond(ctx, w, http.StatusOK, comment, "comment updated")
}

// Delete handles DELETE /api/v1/comments/{commentID}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondStoreError(ctx, w, err, "unable to delete comment")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request) (models.Comment, bool) {
	ctx := r.Context()

	requester := auth.UserIDFromContext(ctx)
	if requester == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Comment{}, false
	}

	commentID, err := query.ParseID(r.PathValue("commentID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid comment id")
		return models.Comment{}, false
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load comment")
		}
		return models.Comment{}, false
	}

	if comment.OwnerID != requester {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this comment")
		return models.Comment{}, false
	}

	return comment, true
}

func decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return "", false
	}
	if len(content) > models.MaxTweetLength {
		respondError(ctx, w, http.StatusBadRequest, "content exceeds maximum length")
		return "", false
	}
	return content, true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
