package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

type inMemorySubscriptionStore struct {
	subs map[string]models.Subscription
}

func newInMemorySubscriptionStore() *inMemorySubscriptionStore {
	return &inMemorySubscriptionStore{subs: make(map[string]models.Subscription)}
}

func subKey(subscriberID, channelID string) string {
	return subscriberID + "|" + channelID
}

func (s *inMemorySubscriptionStore) Toggle(_ context.Context, sub models.Subscription) (bool, error) {
	key := subKey(sub.SubscriberID, sub.ChannelID)
	if _, ok := s.subs[key]; ok {
		delete(s.subs, key)
		return false, nil
	}
	s.subs[key] = sub
	return true, nil
}

func (s *inMemorySubscriptionStore) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	_, ok := s.subs[subKey(subscriberID, channelID)]
	return ok, nil
}

func (s *inMemorySubscriptionStore) ListSubscribers(_ context.Context, channelID string, page query.PageRequest) (query.Page[models.OwnerSummary], error) {
	subscribers := make([]models.OwnerSummary, 0)
	for _, sub := range s.subs {
		if sub.ChannelID == channelID {
			subscribers = append(subscribers, models.OwnerSummary{ID: sub.SubscriberID})
		}
	}
	return query.NewPage(subscribers, int64(len(subscribers)), page), nil
}

func (s *inMemorySubscriptionStore) ListSubscribedChannels(_ context.Context, subscriberID string, page query.PageRequest) (query.Page[models.OwnerSummary], error) {
	channels := make([]models.OwnerSummary, 0)
	for _, sub := range s.subs {
		if sub.SubscriberID == subscriberID {
			channels = append(channels, models.OwnerSummary{ID: sub.ChannelID})
		}
	}
	return query.NewPage(channels, int64(len(channels)), page), nil
}

func toggleSubscription(t *testing.T, handler SubscriptionHandler, subscriberID, channelID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/"+channelID, nil)
	req.SetPathValue("channelID", channelID)
	req = authenticated(req, subscriberID)
	rec := httptest.NewRecorder()
	handler.Toggle(rec, req)
	return rec
}

func TestSubscriptionHandlerToggleTwice(t *testing.T) {
	users := newInMemoryUserStore()
	channel := models.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com"}
	users.users[channel.ID] = channel

	store := newInMemorySubscriptionStore()
	handler := SubscriptionHandler{Subscriptions: store, Users: users}

	subscriberID := uuid.NewString()

	rec := toggleSubscription(t, handler, subscriberID, channel.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data["subscribed"] {
		t.Fatal("expected first toggle to subscribe")
	}

	rec = toggleSubscription(t, handler, subscriberID, channel.ID)
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data["subscribed"] {
		t.Fatal("expected second toggle to unsubscribe")
	}
	if len(store.subs) != 0 {
		t.Fatalf("expected subscriptions to return to original state, got %d", len(store.subs))
	}
}

func TestSubscriptionHandlerToggleUnknownChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newInMemorySubscriptionStore(), Users: newInMemoryUserStore()}

	rec := toggleSubscription(t, handler, uuid.NewString(), uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestSubscriptionHandlerToggleSelf(t *testing.T) {
	users := newInMemoryUserStore()
	user := models.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com"}
	users.users[user.ID] = user

	handler := SubscriptionHandler{Subscriptions: newInMemorySubscriptionStore(), Users: users}

	rec := toggleSubscription(t, handler, user.ID, user.ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestSubscriptionHandlerSubscribers(t *testing.T) {
	users := newInMemoryUserStore()
	channel := models.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com"}
	users.users[channel.ID] = channel

	store := newInMemorySubscriptionStore()
	handler := SubscriptionHandler{Subscriptions: store, Users: users}

	toggleSubscription(t, handler, uuid.NewString(), channel.ID)
	toggleSubscription(t, handler, uuid.NewString(), channel.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/"+channel.ID+"/subscribers", nil)
	req.SetPathValue("channelID", channel.ID)
	rec := httptest.NewRecorder()

	handler.Subscribers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			TotalCount int64 `json:"totalCount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalCount != 2 {
		t.Fatalf("expected 2 subscribers got %d", resp.Data.TotalCount)
	}
}
