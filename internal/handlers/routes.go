package handlers

import (
	"context"
	"net/http"
)

// Dependencies aggregates collaborators required by the HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Playlists     PlaylistStore
	Stats         StatsProvider
	Ingestor      MediaIngestor
	Storage       MediaStorage
	AuthLimiter   RateLimiter
	UploadDir     string
	Ready         func(ctx context.Context) error
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Ready: deps.Ready}
	authH := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Storage: deps.Storage, Limiter: deps.AuthLimiter}
	users := UserHandler{Users: deps.Users}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Ingestor: deps.Ingestor, Storage: deps.Storage, UploadDir: deps.UploadDir}
	comments := CommentHandler{Comments: deps.Comments}
	tweets := TweetHandler{Tweets: deps.Tweets}
	likes := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	playlists := PlaylistHandler{Playlists: deps.Playlists}
	channels := ChannelHandler{Users: deps.Users, StatsProvider: deps.Stats, VideoStore: deps.Videos, Subscriptions: deps.Subscriptions}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", authH.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authH.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authH.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authH.Logout)

	mux.HandleFunc("GET /api/v1/users/me", users.Me)
	mux.HandleFunc("PATCH /api/v1/users/me", users.UpdateProfile)
	mux.HandleFunc("GET /api/v1/users/me/history", users.WatchHistory)
	mux.HandleFunc("GET /api/v1/users/me/subscriptions", subscriptions.Subscribed)
	mux.HandleFunc("GET /api/v1/users/{userID}/tweets", tweets.ListForUser)
	mux.HandleFunc("GET /api/v1/users/{userID}/playlists", playlists.ListForUser)

	mux.HandleFunc("GET /api/v1/videos", videos.List)
	mux.HandleFunc("POST /api/v1/videos", videos.Publish)
	mux.HandleFunc("GET /api/v1/videos/{videoID}", videos.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{videoID}", videos.Update)
	mux.HandleFunc("DELETE /api/v1/videos/{videoID}", videos.Delete)
	mux.HandleFunc("POST /api/v1/videos/{videoID}/toggle-publish", videos.TogglePublish)
	mux.HandleFunc("GET /api/v1/videos/{videoID}/comments", comments.List)
	mux.HandleFunc("POST /api/v1/videos/{videoID}/comments", comments.Create)

	mux.HandleFunc("PATCH /api/v1/comments/{commentID}", comments.Update)
	mux.HandleFunc("DELETE /api/v1/comments/{commentID}", comments.Delete)

	mux.HandleFunc("POST /api/v1/tweets", tweets.Create)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetID}", tweets.Update)
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetID}", tweets.Delete)

	mux.HandleFunc("POST /api/v1/likes/{kind}/{targetID}", likes.Toggle)
	mux.HandleFunc("GET /api/v1/likes/videos", likes.LikedVideos)

	mux.HandleFunc("POST /api/v1/subscriptions/{channelID}", subscriptions.Toggle)

	mux.HandleFunc("POST /api/v1/playlists", playlists.Create)
	mux.HandleFunc("GET /api/v1/playlists/{playlistID}", playlists.Get)
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistID}", playlists.Delete)
	mux.HandleFunc("POST /api/v1/playlists/{playlistID}/videos/{videoID}", playlists.AddVideo)
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistID}/videos/{videoID}", playlists.RemoveVideo)

	mux.HandleFunc("GET /api/v1/channels/{username}", channels.Profile)
	mux.HandleFunc("GET /api/v1/channels/{username}/stats", channels.Stats)
	mux.HandleFunc("GET /api/v1/channels/{username}/videos", channels.Videos)
	mux.HandleFunc("GET /api/v1/channels/{channelID}/subscribers", subscriptions.Subscribers)
}
