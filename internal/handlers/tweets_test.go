package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

type inMemoryTweetStore struct {
	tweets []models.Tweet
}

func (s *inMemoryTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	s.tweets = append(s.tweets, tweet)
	return nil
}

func (s *inMemoryTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	for _, tweet := range s.tweets {
		if tweet.ID == id {
			return tweet, nil
		}
	}
	return models.Tweet{}, repositories.ErrNotFound
}

func (s *inMemoryTweetStore) ListForUser(_ context.Context, ownerID string, page query.PageRequest) (query.Page[models.Tweet], error) {
	matched := make([]models.Tweet, 0)
	for _, tweet := range s.tweets {
		if tweet.OwnerID == ownerID {
			matched = append(matched, tweet)
		}
	}
	return query.NewPage(matched, int64(len(matched)), page), nil
}

func (s *inMemoryTweetStore) Update(_ context.Context, tweet models.Tweet) error {
	for i, existing := range s.tweets {
		if existing.ID == tweet.ID {
			s.tweets[i] = tweet
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *inMemoryTweetStore) Delete(_ context.Context, id string) error {
	for i, tweet := range s.tweets {
		if tweet.ID == id {
			s.tweets = append(s.tweets[:i], s.tweets[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func TestTweetHandlerCreate(t *testing.T) {
	store := &inMemoryTweetStore{}
	handler := TweetHandler{Tweets: store}

	ownerID := uuid.NewString()
	body, _ := json.Marshal(commentRequest{Content: "hello world"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = authenticated(req, ownerID)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.tweets) != 1 || store.tweets[0].OwnerID != ownerID {
		t.Fatalf("unexpected stored tweets: %+v", store.tweets)
	}
}

func TestTweetHandlerCreateTooLong(t *testing.T) {
	handler := TweetHandler{Tweets: &inMemoryTweetStore{}}

	body, _ := json.Marshal(commentRequest{Content: strings.Repeat("x", models.MaxTweetLength+1)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = authenticated(req, uuid.NewString())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestTweetHandlerUpdateNonOwner(t *testing.T) {
	store := &inMemoryTweetStore{}
	tweet := models.Tweet{ID: uuid.NewString(), OwnerID: uuid.NewString(), Content: "original", CreatedAt: time.Now().UTC()}
	store.tweets = append(store.tweets, tweet)

	handler := TweetHandler{Tweets: store}

	body, _ := json.Marshal(commentRequest{Content: "edited"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tweets/"+tweet.ID, bytes.NewReader(body))
	req.SetPathValue("tweetID", tweet.ID)
	req = authenticated(req, uuid.NewString())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
	stored, _ := store.FindByID(context.Background(), tweet.ID)
	if stored.Content != "original" {
		t.Fatalf("expected tweet to be unmodified got %q", stored.Content)
	}
}

func TestTweetHandlerListForUser(t *testing.T) {
	store := &inMemoryTweetStore{}
	ownerID := uuid.NewString()
	store.tweets = append(store.tweets,
		models.Tweet{ID: uuid.NewString(), OwnerID: ownerID, Content: "one"},
		models.Tweet{ID: uuid.NewString(), OwnerID: uuid.NewString(), Content: "two"},
	)

	handler := TweetHandler{Tweets: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+ownerID+"/tweets", nil)
	req.SetPathValue("userID", ownerID)
	rec := httptest.NewRecorder()

	handler.ListForUser(rec, req)

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
	if resp.Data.TotalCount != 1 {
		t.Fatalf("expected 1 tweet got %d", resp.Data.TotalCount)
	}
}
