package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/youtweet/backend/internal/auth"
	"github.com/youtweet/backend/internal/config"
	"github.com/youtweet/backend/internal/db"
	"github.com/youtweet/backend/internal/handlers"
	"github.com/youtweet/backend/internal/media"
	"github.com/youtweet/backend/internal/middleware"
	"github.com/youtweet/backend/internal/repositories"
	"github.com/youtweet/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup drains the background media ingestor.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, func(context.Context) error, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	var ingestStorage media.AssetStorage
	var uploadStorage handlers.MediaStorage
	if cfg.ObjectStore.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		ingestStorage, uploadStorage = s3, s3
	}

	ingestor := media.NewIngestor(ingestStorage, videos, media.IngestorConfig{
		QueueSize: cfg.IngestQueueSize,
		Workers:   cfg.IngestWorkers,
	}, slog.Default())

	stats := media.NewCachingStats(repositories.NewPostgresStatsRepository(pool), cfg.StatsCacheTTL)

	deps := handlers.Dependencies{
		Users:         users,
		Sessions:      auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore),
		Videos:        videos,
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Playlists:     repositories.NewPostgresPlaylistRepository(pool),
		Stats:         stats,
		Ingestor:      ingestor,
		Storage:       uploadStorage,
		AuthLimiter:   middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
		UploadDir:     cfg.UploadTmpDir,
		Ready: func(ctx context.Context) error {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return err
			}
			conn.Release()
			return nil
		},
	}

	cleanup := func(ctx context.Context) error {
		return ingestor.Shutdown(ctx)
	}

	return deps, cleanup, nil
}
