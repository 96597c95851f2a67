package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

// LikeHandler implements the like toggle and liked-content endpoints.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoFinder
	Comments CommentFinder
	Tweets   TweetFinder
	NowFunc  func() time.Time
}

// Toggle handles POST /api/v1/likes/{kind}/{targetID}. The kind path segment
// selects the target entity; toggling twice restores the original state. The
// target must exist, otherwise a like row could dangle after its target is
// gone.
func (h LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	kind := models.LikeTargetKind(r.PathValue("kind"))
	if !kind.Valid() {
		respondError(ctx, w, http.StatusBadRequest, "unsupported like target")
		return
	}

	targetID, err := query.ParseID(r.PathValue("targetID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid target id")
		return
	}

	if err := h.resolveTarget(ctx, kind, targetID); err != nil {
		respondStoreError(ctx, w, err, "target not found")
		return
	}

	like := models.Like{
		ID:        uuid.NewString(),
		LikedBy:   userID,
		Target:    models.LikeTarget{Kind: kind, ID: targetID},
		CreatedAt: h.now(),
	}

	liked, err := h.Likes.Toggle(ctx, like)
	if err != nil {
		respondStoreError(ctx, w, err, "target not found")
		return
	}

	message := "like removed"
	if liked {
		message = "like added"
	}
	respond(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

// LikedVideos handles GET /api/v1/likes/videos, the requester's liked videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	page, err := h.Likes.ListLikedVideos(ctx, userID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list liked videos")
		return
	}

	respond(ctx, w, http.StatusOK, page, "liked videos fetched")
}

// resolveTarget checks that the addressed entity exists before the toggle is
// attempted, mirroring the existence check the subscription toggle performs
// on its channel.
func (h LikeHandler) resolveTarget(ctx context.Context, kind models.LikeTargetKind, targetID string) error {
	var err error
	switch kind {
	case models.LikeTargetVideo:
		_, err = h.Videos.FindByID(ctx, targetID)
	case models.LikeTargetComment:
		_, err = h.Comments.FindByID(ctx, targetID)
	case models.LikeTargetTweet:
		_, err = h.Tweets.FindByID(ctx, targetID)
	}
	return err
}

func (h LikeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
