package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

// TweetHandler implements the micro-blogging endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID := auth.UserIDFromContext(ctx)
	if ownerID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondStoreError(ctx, w, err, "unable to create tweet")
		return
	}

	respond(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ListForUser handles GET /api/v1/users/{userID}/tweets, newest first.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := query.ParseID(r.PathValue("userID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid user id")
		return
	}

	page, err := h.Tweets.ListForUser(ctx, userID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list tweets")
		return
	}

	respond(ctx, w, http.StatusOK, page, "tweets fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetID}. Only the owner may edit.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = h.now()

	if err := h.Tweets.Update(ctx, tweet); err != nil {
		respondStoreError(ctx, w, err, "unable to update tweet")
		return
	}

	respond(ctx, w, http.StatusOK, tweet, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetID}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondStoreError(ctx, w, err, "unable to delete tweet")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) ownedTweet(w http.ResponseWriter, r *http.Request) (models.Tweet, bool) {
	ctx := r.Context()

	requester := auth.UserIDFromContext(ctx)
	if requester == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Tweet{}, false
	}

	tweetID, err := query.ParseID(r.PathValue("tweetID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid tweet id")
		return models.Tweet{}, false
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load tweet")
		}
		return models.Tweet{}, false
	}

	if tweet.OwnerID != requester {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this tweet")
		return models.Tweet{}, false
	}

	return tweet, true
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
