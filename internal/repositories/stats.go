package repositories

import (
	"context"
	"fmt"

	"github.com/youtweet/backend/internal/db"
	"github.com/youtweet/backend/internal/logging"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

// PostgresStatsRepository computes the channel dashboard aggregations. Each
// counter is an independent aggregation scoped to the channel; empty sets
// report zero rather than an absent field.
type PostgresStatsRepository struct {
	pool  db.Pool
	likes *PostgresLikeRepository
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool, likes: NewPostgresLikeRepository(pool)}
}

// ChannelStats aggregates the dashboard counters for the channel identified
// by id. Like totals are reported under both the likes-given and the
// likes-received interpretation.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	span := logging.StartSpan(ctx, "stats.channel")

	stats, err := r.channelStats(ctx, channelID)
	if err != nil {
		span.Fail(err)
		return models.ChannelStats{}, err
	}

	span.End()
	return stats, nil
}

func (r *PostgresStatsRepository) channelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	var stats models.ChannelStats

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}

	whereClause, args := query.Where(query.OwnedBy(channelID), query.PublishedOnly())
	err = conn.QueryRow(ctx, `
        SELECT COALESCE(SUM(views), 0), COUNT(*)
        FROM videos
        `+whereClause, args...).Scan(&stats.TotalViews, &stats.TotalVideos)
	if err != nil {
		conn.Release()
		return models.ChannelStats{}, fmt.Errorf("aggregate video views: %w", err)
	}

	subsClause, subsArgs := query.Where(query.SubscribedTo(channelID))
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions `+subsClause, subsArgs...).Scan(&stats.TotalSubscribers); err != nil {
		conn.Release()
		return models.ChannelStats{}, fmt.Errorf("count subscribers: %w", err)
	}

	ownedClause, ownedArgs := query.Where(query.OwnedBy(channelID))
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM tweets `+ownedClause, ownedArgs...).Scan(&stats.TotalTweets); err != nil {
		conn.Release()
		return models.ChannelStats{}, fmt.Errorf("count tweets: %w", err)
	}

	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments `+ownedClause, ownedArgs...).Scan(&stats.TotalComments); err != nil {
		conn.Release()
		return models.ChannelStats{}, fmt.Errorf("count comments: %w", err)
	}
	conn.Release()

	given, err := r.likes.TotalsGiven(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}
	stats.LikesGiven = given

	received, err := r.likes.TotalsReceived(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}
	stats.LikesReceived = received

	return stats, nil
}
