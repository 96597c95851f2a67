package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/youtweet/backend/internal/db"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for
// channel subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle removes the subscription row for (subscriber, channel) when present,
// otherwise inserts it. It reports whether the subscriber ends up subscribed.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, sub models.Subscription) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, sub.SubscriberID, sub.ChannelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, active, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.Active, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	return true, nil
}

// IsSubscribed reports whether the subscriber currently follows the channel.
func (r *PostgresSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions
            WHERE subscriber_id = $1 AND channel_id = $2
        )
    `, subscriberID, channelID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select subscription: %w", err)
	}

	return exists, nil
}

// ListSubscribers returns one page of the users subscribed to a channel.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page query.PageRequest) (query.Page[models.OwnerSummary], error) {
	return r.listUsers(ctx, page, `s.channel_id = $1`, `s.subscriber_id`, channelID)
}

// ListSubscribedChannels returns one page of the channels a user follows.
func (r *PostgresSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, page query.PageRequest) (query.Page[models.OwnerSummary], error) {
	return r.listUsers(ctx, page, `s.subscriber_id = $1`, `s.channel_id`, subscriberID)
}

func (r *PostgresSubscriptionRepository) listUsers(ctx context.Context, page query.PageRequest, match, joinColumn, id string) (query.Page[models.OwnerSummary], error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return query.Page[models.OwnerSummary]{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	countSQL := `SELECT COUNT(*) FROM subscriptions s WHERE ` + match
	if err := conn.QueryRow(ctx, countSQL, id).Scan(&total); err != nil {
		return query.Page[models.OwnerSummary]{}, fmt.Errorf("count subscriptions: %w", err)
	}

	if total == 0 || int64(page.Offset()) >= total {
		return query.NewPage([]models.OwnerSummary{}, total, page), nil
	}

	selectSQL := fmt.Sprintf(`
        SELECT u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = %s
        WHERE %s
        ORDER BY s.created_at DESC, s.id DESC
        LIMIT $2 OFFSET $3
    `, joinColumn, match)

	rows, err := conn.Query(ctx, selectSQL, id, page.Size, page.Offset())
	if err != nil {
		return query.Page[models.OwnerSummary]{}, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	items := []models.OwnerSummary{}
	for rows.Next() {
		var u models.OwnerSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar); err != nil {
			return query.Page[models.OwnerSummary]{}, fmt.Errorf("scan subscription row: %w", err)
		}
		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		return query.Page[models.OwnerSummary]{}, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return query.NewPage(items, total, page), nil
}
