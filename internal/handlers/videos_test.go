package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

type inMemoryVideoStore struct {
	videos []models.VideoWithOwner
}

func (s *inMemoryVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos = append(s.videos, models.VideoWithOwner{Video: video})
	return nil
}

func (s *inMemoryVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	for _, v := range s.videos {
		if v.ID == id {
			return v.Video, nil
		}
	}
	return models.Video{}, repositories.ErrNotFound
}

func (s *inMemoryVideoStore) List(_ context.Context, filter query.VideoFilter, sortSpec query.Sort, page query.PageRequest) (query.Page[models.VideoWithOwner], error) {
	if _, err := filter.Conditions(); err != nil {
		return query.Page[models.VideoWithOwner]{}, err
	}
	if _, err := sortSpec.Clause(query.VideoSortFields, "v"); err != nil {
		return query.Page[models.VideoWithOwner]{}, err
	}

	matched := make([]models.VideoWithOwner, 0, len(s.videos))
	text := strings.ToLower(filter.TextQuery)
	for _, v := range s.videos {
		if !v.Published {
			continue
		}
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(v.Title), text) && !strings.Contains(strings.ToLower(v.Description), text) {
			continue
		}
		matched = append(matched, v)
	}

	descending := sortSpec.Field == "" || sortSpec.Direction == query.Descending
	sort.SliceStable(matched, func(i, j int) bool {
		if descending {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	page = page.Normalize()
	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return query.NewPage(matched[start:end], total, page), nil
}

func (s *inMemoryVideoStore) ListByChannel(ctx context.Context, channelID string, page query.PageRequest) (query.Page[models.VideoWithOwner], error) {
	return s.List(ctx, query.VideoFilter{OwnerID: channelID}, query.Sort{}, page)
}

func (s *inMemoryVideoStore) Update(_ context.Context, video models.Video) error {
	for i, v := range s.videos {
		if v.ID == video.ID {
			s.videos[i].Video = video
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *inMemoryVideoStore) Delete(_ context.Context, id string) error {
	for i, v := range s.videos {
		if v.ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *inMemoryVideoStore) IncrementViews(_ context.Context, id string) (int64, error) {
	for i, v := range s.videos {
		if v.ID == id {
			s.videos[i].Views++
			return s.videos[i].Views, nil
		}
	}
	return 0, repositories.ErrNotFound
}

type mediaStorageStub struct {
	saved   []string
	deleted []string
}

func (s *mediaStorageStub) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.saved = append(s.saved, name)
	return "https://cdn.test/" + name, nil
}

func (s *mediaStorageStub) Delete(_ context.Context, location string) error {
	s.deleted = append(s.deleted, location)
	return nil
}

type pageEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Data       struct {
		Items      []models.VideoWithOwner `json:"items"`
		TotalCount int64                   `json:"totalCount"`
		HasNext    bool                    `json:"hasNext"`
		NextPage   *int                    `json:"nextPage"`
	} `json:"data"`
}

func seedVideo(store *inMemoryVideoStore, ownerID, title string, views int64, createdAt time.Time) models.Video {
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Views:       views,
		Published:   true,
		MediaStatus: models.MediaStatusReady,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	store.videos = append(store.videos, models.VideoWithOwner{Video: video})
	return video
}

func authenticated(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestVideoHandlerListPagination(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedVideo(store, owner, "cat video", 0, base.Add(time.Duration(i)*time.Hour))
	}
	seedVideo(store, owner, "dog video", 0, base.Add(10*time.Hour))

	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?query=cat&sortBy=createdAt&sortType=-1&page=1&limit=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp pageEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Data.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(resp.Data.Items))
	}
	if resp.Data.TotalCount != 5 {
		t.Fatalf("expected totalCount 5 got %d", resp.Data.TotalCount)
	}
	if !resp.Data.HasNext {
		t.Fatal("expected hasNext to be true")
	}
	if resp.Data.NextPage == nil || *resp.Data.NextPage != 2 {
		t.Fatalf("expected nextPage 2 got %v", resp.Data.NextPage)
	}
	if !resp.Data.Items[0].CreatedAt.After(resp.Data.Items[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}
}

func TestVideoHandlerListLastPage(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedVideo(store, owner, "cat video", 0, base.Add(time.Duration(i)*time.Hour))
	}

	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?query=cat&page=2&limit=2", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	var resp pageEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Data.HasNext {
		t.Fatal("expected hasNext to be false on the last page")
	}
	if resp.Data.NextPage != nil {
		t.Fatalf("expected nextPage to be null got %v", *resp.Data.NextPage)
	}
}

func TestVideoHandlerListEmptyQueryMatchesAll(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(store, owner, "cat video", 0, base)
	seedVideo(store, owner, "dog video", 0, base.Add(time.Hour))

	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?query=", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	var resp pageEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalCount != 2 {
		t.Fatalf("expected empty query to match all videos, got %d", resp.Data.TotalCount)
	}
}

func TestVideoHandlerListMalformedOwner(t *testing.T) {
	handler := VideoHandler{Videos: &inMemoryVideoStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?userId=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestVideoHandlerListUnknownSortType(t *testing.T) {
	handler := VideoHandler{Videos: &inMemoryVideoStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?sortBy=views&sortType=sideways", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVideoHandlerGet(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	video := seedVideo(store, owner, "cat video", 9, time.Now().UTC())

	users := newInMemoryUserStore()
	handler := VideoHandler{Videos: store, Users: users}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID, nil)
	req.SetPathValue("videoID", video.ID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Video `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Views != 10 {
		t.Fatalf("expected view counter to increment to 10 got %d", resp.Data.Views)
	}
}

func TestVideoHandlerGetInvalidID(t *testing.T) {
	handler := VideoHandler{Videos: &inMemoryVideoStore{}, Users: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/garbage", nil)
	req.SetPathValue("videoID", "garbage")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestVideoHandlerGetMissing(t *testing.T) {
	handler := VideoHandler{Videos: &inMemoryVideoStore{}, Users: newInMemoryUserStore()}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+id, nil)
	req.SetPathValue("videoID", id)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestVideoHandlerUpdateOwnership(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	video := seedVideo(store, owner, "original title", 0, time.Now().UTC())

	handler := VideoHandler{Videos: store}

	body, _ := json.Marshal(map[string]string{"title": "hijacked"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID, bytes.NewReader(body))
	req.SetPathValue("videoID", video.ID)
	req = authenticated(req, uuid.NewString())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}

	stored, err := store.FindByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if stored.Title != "original title" {
		t.Fatalf("expected video to be unmodified, got title %q", stored.Title)
	}
}

func TestVideoHandlerUpdateMissingBeforeForbidden(t *testing.T) {
	handler := VideoHandler{Videos: &inMemoryVideoStore{}}

	id := uuid.NewString()
	body, _ := json.Marshal(map[string]string{"title": "anything"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+id, bytes.NewReader(body))
	req.SetPathValue("videoID", id)
	req = authenticated(req, uuid.NewString())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestVideoHandlerUpdateThumbnail(t *testing.T) {
	store := &inMemoryVideoStore{}
	storage := &mediaStorageStub{}
	owner := uuid.NewString()
	video := seedVideo(store, owner, "cat video", 0, time.Now().UTC())
	oldThumbnail := "https://cdn.test/" + video.ID + "/old.jpg"
	store.videos[0].Thumbnail = oldThumbnail

	handler := VideoHandler{Videos: store, Storage: storage}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("thumbnail", "new.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := form.WriteField("title", "updated title"); err != nil {
		t.Fatalf("write title field: %v", err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID, &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetPathValue("videoID", video.ID)
	req = authenticated(req, owner)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := store.FindByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	wantThumbnail := "https://cdn.test/" + video.ID + "/thumbnail.jpg"
	if stored.Thumbnail != wantThumbnail {
		t.Fatalf("expected thumbnail %q got %q", wantThumbnail, stored.Thumbnail)
	}
	if stored.Title != "updated title" {
		t.Fatalf("expected title to update alongside the thumbnail, got %q", stored.Title)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != oldThumbnail {
		t.Fatalf("expected the replaced thumbnail %q to be deleted, got %v", oldThumbnail, storage.deleted)
	}
}

func TestVideoHandlerUpdateThumbnailStorageUnavailable(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	video := seedVideo(store, owner, "cat video", 0, time.Now().UTC())

	handler := VideoHandler{Videos: store}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("thumbnail", "new.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID, &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetPathValue("videoID", video.ID)
	req = authenticated(req, owner)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := store.FindByID(context.Background(), video.ID)
	if stored.Thumbnail != "" {
		t.Fatalf("expected thumbnail to be unmodified, got %q", stored.Thumbnail)
	}
}

func TestVideoHandlerTogglePublish(t *testing.T) {
	store := &inMemoryVideoStore{}
	owner := uuid.NewString()
	video := seedVideo(store, owner, "cat video", 0, time.Now().UTC())

	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+video.ID+"/toggle-publish", nil)
	req.SetPathValue("videoID", video.ID)
	req = authenticated(req, owner)
	rec := httptest.NewRecorder()

	handler.TogglePublish(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := store.FindByID(context.Background(), video.ID)
	if stored.Published {
		t.Fatal("expected publish flag to flip to false")
	}
}
