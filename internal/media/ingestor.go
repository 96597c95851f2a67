package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// AssetStorage persists uploaded media objects and returns their public locations.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// VideoMediaUpdater persists the outcome of media ingestion for a video.
type VideoMediaUpdater interface {
	MarkMediaReady(ctx context.Context, id, videoURL, thumbnailURL string, duration float64) error
	MarkMediaFailed(ctx context.Context, id string) error
}

// IngestorConfig controls the concurrency characteristics of the ingestor.
type IngestorConfig struct {
	QueueSize int
	Workers   int
}

// IngestRequest describes an upload awaiting transfer to object storage. The
// file paths point at temporary files owned by the ingestor once enqueued.
type IngestRequest struct {
	VideoID       string
	VideoPath     string
	ThumbnailPath string
	Duration      float64
}

// Ingestor moves uploaded media files to object storage in the background and
// flips the owning video from pending to ready or failed.
type Ingestor struct {
	storage AssetStorage
	updater VideoMediaUpdater
	logger  *slog.Logger

	jobs   chan IngestRequest
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

var errIngestorClosed = errors.New("media ingestor closed")

// NewIngestor constructs a background worker pool that persists media assets.
func NewIngestor(storage AssetStorage, updater VideoMediaUpdater, cfg IngestorConfig, logger *slog.Logger) *Ingestor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	ing := &Ingestor{
		storage: storage,
		updater: updater,
		logger:  logger,
		jobs:    make(chan IngestRequest, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	ing.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go ing.worker()
	}

	return ing
}

// Enqueue schedules media persistence for the supplied upload.
func (i *Ingestor) Enqueue(ctx context.Context, req IngestRequest) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return errIngestorClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return errIngestorClosed
	case i.jobs <- req:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding jobs.
func (i *Ingestor) Shutdown(ctx context.Context) error {
	i.once.Do(func() {
		i.cancel()
		close(i.jobs)
	})

	done := make(chan struct{})
	go func() {
		i.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (i *Ingestor) worker() {
	defer i.wg.Done()

	for {
		select {
		case <-i.ctx.Done():
			return
		case job, ok := <-i.jobs:
			if !ok {
				return
			}
			i.handleJob(job)
		}
	}
}

func (i *Ingestor) handleJob(job IngestRequest) {
	defer cleanupFiles(job.VideoPath, job.ThumbnailPath)

	if i.storage == nil || i.updater == nil {
		i.logger.Error("media ingestor missing dependencies", "hasStorage", i.storage != nil, "hasUpdater", i.updater != nil)
		return
	}

	uploadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	videoURL, err := i.uploadFile(uploadCtx, job.VideoID, job.VideoPath)
	if err != nil {
		i.logger.Error("video upload failed", "videoId", job.VideoID, "error", err)
		i.recordFailure(job.VideoID)
		return
	}

	thumbnailURL, err := i.uploadFile(uploadCtx, job.VideoID, job.ThumbnailPath)
	if err != nil {
		i.logger.Error("thumbnail upload failed", "videoId", job.VideoID, "error", err)
		i.recordFailure(job.VideoID)
		return
	}

	if err := i.recordSuccess(job.VideoID, videoURL, thumbnailURL, job.Duration); err != nil {
		i.logger.Error("mark media ready", "videoId", job.VideoID, "error", err)
		i.recordFailure(job.VideoID)
	}
}

func (i *Ingestor) uploadFile(ctx context.Context, videoID, filePath string) (string, error) {
	name := filepath.Base(filePath)
	key := path.Join(videoID, name)
	if strings.TrimSpace(key) == "" || name == "." {
		return "", fmt.Errorf("media ingest: empty key for %q", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", filePath, err)
	}
	defer f.Close()

	location, err := i.storage.Save(ctx, key, f)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}

	return location, nil
}

func (i *Ingestor) recordFailure(videoID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.updater.MarkMediaFailed(ctx, videoID); err != nil {
		i.logger.Error("record media failure", "videoId", videoID, "error", err)
	}
}

func (i *Ingestor) recordSuccess(videoID, videoURL, thumbnailURL string, duration float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return i.updater.MarkMediaReady(ctx, videoID, videoURL, thumbnailURL, duration)
}

func cleanupFiles(paths ...string) {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		_ = os.Remove(p)
	}
}
