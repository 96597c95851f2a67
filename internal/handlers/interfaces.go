package handlers

import (
	"context"
	"io"

	"github.com/youtweet/backend/internal/media"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

// UserStore captures the persistence operations required by the auth and
// profile handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
}

// SessionManager issues, refreshes and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// VideoStore captures persistence for the video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, filter query.VideoFilter, sort query.Sort, page query.PageRequest) (query.Page[models.VideoWithOwner], error)
	ListByChannel(ctx context.Context, channelID string, page query.PageRequest) (query.Page[models.VideoWithOwner], error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, page query.PageRequest) (query.Page[models.CommentWithOwner], error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, ownerID string, page query.PageRequest) (query.Page[models.Tweet], error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
}

// LikeStore toggles likes and lists liked content.
type LikeStore interface {
	Toggle(ctx context.Context, like models.Like) (bool, error)
	ListLikedVideos(ctx context.Context, userID string, page query.PageRequest) (query.Page[models.VideoWithOwner], error)
}

// SubscriptionStore toggles subscriptions and lists both sides of the relation.
type SubscriptionStore interface {
	Toggle(ctx context.Context, sub models.Subscription) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string, page query.PageRequest) (query.Page[models.OwnerSummary], error)
	ListSubscribedChannels(ctx context.Context, subscriberID string, page query.PageRequest) (query.Page[models.OwnerSummary], error)
}

// PlaylistStore captures persistence for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	Delete(ctx context.Context, id string) error
}

// StatsProvider computes the channel dashboard counters.
type StatsProvider interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

// MediaIngestor schedules background persistence of uploaded media files.
type MediaIngestor interface {
	Enqueue(ctx context.Context, req media.IngestRequest) error
}

// AssetStorage stores small uploads such as avatars synchronously.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// MediaStorage extends AssetStorage with removal of superseded objects, used
// when an upload replaces an earlier one.
type MediaStorage interface {
	AssetStorage
	Delete(ctx context.Context, location string) error
}

// VideoFinder resolves a video by id. VideoStore satisfies it.
type VideoFinder interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
}

// CommentFinder resolves a comment by id. CommentStore satisfies it.
type CommentFinder interface {
	FindByID(ctx context.Context, id string) (models.Comment, error)
}

// TweetFinder resolves a tweet by id. TweetStore satisfies it.
type TweetFinder interface {
	FindByID(ctx context.Context, id string) (models.Tweet, error)
}
