package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/logging"
	"github.com/youtweet/backend/internal/media"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

// VideoHandler implements the video feed and lifecycle endpoints.
type VideoHandler struct {
	Videos    VideoStore
	Users     UserStore
	Ingestor  MediaIngestor
	Storage   MediaStorage
	UploadDir string
	NowFunc   func() time.Time
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// List handles GET /api/v1/videos. The feed accepts page, limit, query,
// sortBy, sortType and userId parameters; an empty text query matches all
// published videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := query.VideoFilter{
		TextQuery: strings.TrimSpace(r.URL.Query().Get("query")),
		OwnerID:   strings.TrimSpace(r.URL.Query().Get("userId")),
	}

	sortSpec, err := sortFromRequest(r)
	if err != nil {
		respondStoreError(ctx, w, err, "invalid sort")
		return
	}

	page, err := h.Videos.List(ctx, filter, sortSpec, pageFromRequest(r))
	if err != nil {
		respondStoreError(ctx, w, err, "unable to list videos")
		return
	}

	respond(ctx, w, http.StatusOK, page, "videos fetched")
}

// Publish handles POST /api/v1/videos. The multipart form carries the video
// and thumbnail files, which are staged locally and moved to object storage
// in the background; the video starts out with pending media status.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ownerID := auth.UserIDFromContext(ctx)
	if ownerID == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		logger.Warn("invalid publish payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	videoFile := firstFile(r, "videoFile")
	thumbnail := firstFile(r, "thumbnail")
	if videoFile == nil || thumbnail == nil {
		respondError(ctx, w, http.StatusBadRequest, "videoFile and thumbnail are required")
		return
	}

	videoPath, err := h.stageUpload(videoFile)
	if err != nil {
		logger.Error("stage video upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	thumbnailPath, err := h.stageUpload(thumbnail)
	if err != nil {
		os.Remove(videoPath)
		logger.Error("stage thumbnail upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Duration:    duration,
		Published:   true,
		MediaStatus: models.MediaStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		os.Remove(videoPath)
		os.Remove(thumbnailPath)
		respondStoreError(ctx, w, err, "unable to publish video")
		return
	}

	req := media.IngestRequest{
		VideoID:       video.ID,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      duration,
	}
	if err := h.Ingestor.Enqueue(ctx, req); err != nil {
		logger.Error("enqueue media ingest", "videoId", video.ID, "error", err)
		os.Remove(videoPath)
		os.Remove(thumbnailPath)
		respondError(ctx, w, http.StatusServiceUnavailable, "media processing unavailable")
		return
	}

	respond(ctx, w, http.StatusCreated, video, "video published, media processing")
}

// Get handles GET /api/v1/videos/{videoID}. Fetching a video counts a view
// and records it in the requester's watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID, err := query.ParseID(r.PathValue("videoID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	views, err := h.Videos.IncrementViews(ctx, videoID)
	if err != nil {
		logger.Error("increment views", "videoId", videoID, "error", err)
	} else {
		video.Views = views
	}

	if requester := auth.UserIDFromContext(ctx); requester != "" {
		if err := h.Users.AddToWatchHistory(ctx, requester, videoID); err != nil {
			logger.Error("record watch history", "videoId", videoID, "userId", requester, "error", err)
		}
	}

	respond(ctx, w, http.StatusOK, video, "video fetched")
}

// Update handles PATCH /api/v1/videos/{videoID}. Only the owner may edit,
// and existence is checked before ownership. A JSON body edits title and
// description; a multipart body may additionally replace the thumbnail, in
// which case the previous object is removed from storage.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	var req updateVideoRequest
	var thumbnail *multipart.FileHeader
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid multipart form", err.Error())
			return
		}
		req = updateFromForm(r)
		thumbnail = firstFile(r, "thumbnail")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.Title == nil && req.Description == nil && thumbnail == nil {
		respondError(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(ctx, w, http.StatusBadRequest, "title must not be empty")
			return
		}
		video.Title = title
	}
	if req.Description != nil {
		video.Description = strings.TrimSpace(*req.Description)
	}
	if thumbnail != nil {
		location, err := h.replaceThumbnail(ctx, video, thumbnail)
		if err != nil {
			if errors.Is(err, media.ErrStorageUnavailable) {
				respondError(ctx, w, http.StatusServiceUnavailable, "media storage unavailable")
			} else {
				logging.FromContext(ctx).Error("replace thumbnail", "videoId", video.ID, "error", err)
				respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
			}
			return
		}
		video.Thumbnail = location
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondStoreError(ctx, w, err, "unable to update video")
		return
	}

	respond(ctx, w, http.StatusOK, video, "video updated")
}

// replaceThumbnail uploads the new image under the video's key prefix and
// deletes the object it supersedes. A failed delete leaves an orphaned object
// and is only logged; the update itself still succeeds.
func (h VideoHandler) replaceThumbnail(ctx context.Context, video models.Video, header *multipart.FileHeader) (string, error) {
	if h.Storage == nil {
		return "", media.ErrStorageUnavailable
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join(video.ID, "thumbnail"+path.Ext(header.Filename))
	location, err := h.Storage.Save(ctx, key, f)
	if err != nil {
		return "", err
	}

	if old := video.Thumbnail; old != "" && old != location {
		if err := h.Storage.Delete(ctx, old); err != nil {
			logging.FromContext(ctx).Error("delete replaced thumbnail", "videoId", video.ID, "location", old, "error", err)
		}
	}

	return location, nil
}

func updateFromForm(r *http.Request) updateVideoRequest {
	var req updateVideoRequest
	if r.MultipartForm == nil {
		return req
	}
	if values := r.MultipartForm.Value["title"]; len(values) > 0 {
		req.Title = &values[0]
	}
	if values := r.MultipartForm.Value["description"]; len(values) > 0 {
		req.Description = &values[0]
	}
	return req
}

// TogglePublish handles POST /api/v1/videos/{videoID}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	video.Published = !video.Published
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondStoreError(ctx, w, err, "unable to toggle publish state")
		return
	}

	respond(ctx, w, http.StatusOK, video, "publish state toggled")
}

// Delete handles DELETE /api/v1/videos/{videoID}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondStoreError(ctx, w, err, "unable to delete video")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "video deleted")
}

// ownedVideo loads the addressed video and enforces the requester-is-owner
// rule shared by all video mutations. Absence is reported before ownership.
func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (models.Video, bool) {
	ctx := r.Context()

	requester := auth.UserIDFromContext(ctx)
	if requester == "" {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Video{}, false
	}

	videoID, err := query.ParseID(r.PathValue("videoID"))
	if err != nil {
		respondStoreError(ctx, w, err, "invalid video id")
		return models.Video{}, false
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
		} else {
			respondStoreError(ctx, w, err, "unable to load video")
		}
		return models.Video{}, false
	}

	if video.OwnerID != requester {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this video")
		return models.Video{}, false
	}

	return video, true
}

func (h VideoHandler) stageUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := h.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	dst, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if headers := r.MultipartForm.File[field]; len(headers) > 0 {
		return headers[0]
	}
	return nil
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
