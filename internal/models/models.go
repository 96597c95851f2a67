package models

import "time"

// User represents an account on the platform. Viewed through the profile and
// stats endpoints the same record acts as a channel.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Password   string    `json:"-"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerSummary is the denormalized subset of User fields attached to listed
// content so clients can render an item without a second lookup.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Summary projects the display fields of a user.
func (u User) Summary() OwnerSummary {
	return OwnerSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// Video is an uploaded video together with its media references.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	Published   bool      `json:"published"`
	MediaStatus string    `json:"mediaStatus"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	MediaStatusPending = "pending"
	MediaStatusReady   = "ready"
	MediaStatusFailed  = "failed"
)

// VideoWithOwner is a video flattened with its owner summary, as produced by
// the listing queries.
type VideoWithOwner struct {
	Video
	Owner OwnerSummary `json:"owner"`
}

// Comment is a text comment attached to a video.
type Comment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	VideoID   string    `json:"videoId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentWithOwner is a comment flattened with its owner summary.
type CommentWithOwner struct {
	Comment
	Owner OwnerSummary `json:"owner"`
}

// Tweet is a short text update posted by a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MaxTweetLength bounds tweet and comment content.
const MaxTweetLength = 280

// LikeTargetKind discriminates the entity a like points at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// Valid reports whether the kind is one of the three supported targets.
func (k LikeTargetKind) Valid() bool {
	switch k {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// LikeTarget identifies exactly one likeable entity. The kind tag replaces
// the three optional reference fields of the legacy schema.
type LikeTarget struct {
	Kind LikeTargetKind `json:"kind"`
	ID   string         `json:"id"`
}

// Like records that a user liked a target. Existence of the row denotes
// "liked"; identity is the (LikedBy, Target) pair.
type Like struct {
	ID        string     `json:"id"`
	LikedBy   string     `json:"likedBy"`
	Target    LikeTarget `json:"target"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Subscription links a subscriber to a channel. At most one row exists per
// (subscriber, channel) pair.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Playlist is an ordered set of video references owned by a user. Each video
// id appears at most once.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoIDs    []string  `json:"videoIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LikeTotals breaks a like count down by target kind.
type LikeTotals struct {
	Videos   int64 `json:"videos"`
	Comments int64 `json:"comments"`
	Tweets   int64 `json:"tweets"`
}

// ChannelStats aggregates the dashboard counters for a channel. Counts over
// empty sets are zero, never omitted. Like totals are reported under both
// interpretations because the legacy metric counted likes given by the
// channel owner rather than likes received by the channel's content.
type ChannelStats struct {
	TotalViews       int64      `json:"totalViews"`
	TotalVideos      int64      `json:"totalVideos"`
	TotalSubscribers int64      `json:"totalSubscribers"`
	TotalTweets      int64      `json:"totalTweets"`
	TotalComments    int64      `json:"totalComments"`
	LikesGiven       LikeTotals `json:"likesGiven"`
	LikesReceived    LikeTotals `json:"likesReceived"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
