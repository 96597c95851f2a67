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

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/{channelID}. Subscribing to an
// absent channel is NotFound, to oneself InvalidArgument.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID := auth.UserIDFromContext(ctx)
	if subscriberID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	channelID, err := query.ParseID(r.PathValue("channelID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid channel id")
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load channel")
		}
		return
	}

	if channelID == subscriberID {
		respondError(ctx, w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	sub := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		Active:       true,
		CreatedAt:    h.now(),
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, sub)
	if err != nil {
		respondStoreError(ctx, w, err, "unable to toggle subscription")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respond(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// Subscribers handles GET /api/v1/channels/{channelID}/subscribers.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := query.ParseID(r.PathValue("channelID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid channel id")
		return
	}

	page, err := h.Subscriptions.ListSubscribers(ctx, channelID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list subscribers")
		return
	}

	respond(ctx, w, http.StatusOK, page, "subscribers fetched")
}

// Subscribed handles GET /api/v1/users/me/subscriptions, the channels the
// requester follows.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID := auth.UserIDFromContext(ctx)
	if subscriberID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	page, err := h.Subscriptions.ListSubscribedChannels(ctx, subscriberID, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list subscriptions")
		return
	}

	respond(ctx, w, http.StatusOK, page, "subscriptions fetched")
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
