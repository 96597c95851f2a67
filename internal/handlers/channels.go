package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/repositories"
)

// ChannelHandler implements the public channel endpoints, addressed by
// username rather than id.
type ChannelHandler struct {
	Users         UserStore
	StatsProvider StatsProvider
	VideoStore    VideoStore
	Subscriptions SubscriptionStore
}

type channelProfile struct {
	models.OwnerSummary
	CoverImage   string `json:"coverImage"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// Profile handles GET /api/v1/channels/{username}.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.channelByUsername(w, r)
	if !ok {
		return
	}

	profile := channelProfile{OwnerSummary: user.Summary(), CoverImage: user.CoverImage}
	if requester := auth.UserIDFromContext(ctx); requester != "" && h.Subscriptions != nil {
		subscribed, err := h.Subscriptions.IsSubscribed(ctx, requester, user.ID)
		if err != nil {
			respondStoreError(ctx, w, err, "unable to load channel")
			return
		}
		profile.IsSubscribed = subscribed
	}

	respond(ctx, w, http.StatusOK, profile, "channel fetched")
}

// Stats handles GET /api/v1/channels/{username}/stats. A channel with no
// content reports explicit zero counters.
func (h ChannelHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.channelByUsername(w, r)
	if !ok {
		return
	}

	stats, err := h.StatsProvider.ChannelStats(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to compute channel stats")
		return
	}

	respond(ctx, w, http.StatusOK, stats, "channel stats fetched")
}

// Videos handles GET /api/v1/channels/{username}/videos.
func (h ChannelHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.channelByUsername(w, r)
	if !ok {
		return
	}

	page, err := h.VideoStore.ListByChannel(ctx, user.ID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list channel videos")
		return
	}

	respond(ctx, w, http.StatusOK, page, "channel videos fetched")
}

func (h ChannelHandler) channelByUsername(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	ctx := r.Context()

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return models.User{}, false
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load channel")
		}
		return models.User{}, false
	}

	return user, true
}
