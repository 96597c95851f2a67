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

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle removes the like row for (likedBy, target) when present, otherwise
// inserts it. It reports whether the target ends up liked. The delete-first
// form keeps each call a single-row write, so a concurrent double toggle by
// the same user degrades to two flips rather than a constraint error.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, like models.Like) (bool, error) {
	if !like.Target.Kind.Valid() {
		return false, fmt.Errorf("%w: unknown like target kind %q", query.ErrInvalidArgument, like.Target.Kind)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
    `, like.LikedBy, string(like.Target.Kind), like.Target.ID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, liked_by, target_kind, target_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (liked_by, target_kind, target_id) DO NOTHING
    `, like.ID, like.LikedBy, string(like.Target.Kind), like.Target.ID, like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	return true, nil
}

// ListLikedVideos returns one page of the videos a user has liked, most
// recently liked first, with owner summaries joined in.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string, page query.PageRequest) (query.Page[models.VideoWithOwner], error) {
	page = page.Normalize()

	whereClause, args := query.Where(query.LikedBy(userID), query.TargetKind(models.LikeTargetVideo))

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return query.Page[models.VideoWithOwner]{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM likes `+whereClause, args...).Scan(&total); err != nil {
		return query.Page[models.VideoWithOwner]{}, fmt.Errorf("count liked videos: %w", err)
	}

	if total == 0 || int64(page.Offset()) >= total {
		return query.NewPage([]models.VideoWithOwner{}, total, page), nil
	}

	selectSQL := fmt.Sprintf(`
        SELECT %s
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        LEFT JOIN users u ON u.id = v.owner_id
        %s
        ORDER BY l.created_at DESC, l.id DESC
        LIMIT $%d OFFSET $%d
    `, videoWithOwnerColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := conn.Query(ctx, selectSQL, append(args, page.Size, page.Offset())...)
	if err != nil {
		return query.Page[models.VideoWithOwner]{}, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	items := []models.VideoWithOwner{}
	for rows.Next() {
		item, err := scanVideoWithOwner(rows)
		if err != nil {
			return query.Page[models.VideoWithOwner]{}, fmt.Errorf("scan liked video row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return query.Page[models.VideoWithOwner]{}, fmt.Errorf("iterate liked videos: %w", err)
	}

	return query.NewPage(items, total, page), nil
}

// TotalsGiven counts the likes a user has handed out, broken down by target
// kind. This is the legacy dashboard metric.
func (r *PostgresLikeRepository) TotalsGiven(ctx context.Context, userID string) (models.LikeTotals, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.LikeTotals{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var totals models.LikeTotals
	for _, kind := range []struct {
		kind models.LikeTargetKind
		dst  *int64
	}{
		{models.LikeTargetVideo, &totals.Videos},
		{models.LikeTargetComment, &totals.Comments},
		{models.LikeTargetTweet, &totals.Tweets},
	} {
		whereClause, args := query.Where(query.LikedBy(userID), query.TargetKind(kind.kind))
		if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM likes `+whereClause, args...).Scan(kind.dst); err != nil {
			return models.LikeTotals{}, fmt.Errorf("count %s likes given: %w", kind.kind, err)
		}
	}

	return totals, nil
}

// TotalsReceived counts the likes collected by a channel's content, broken
// down by target kind.
func (r *PostgresLikeRepository) TotalsReceived(ctx context.Context, channelID string) (models.LikeTotals, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.LikeTotals{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var totals models.LikeTotals
	for _, target := range []struct {
		table string
		kind  models.LikeTargetKind
		dst   *int64
	}{
		{"videos", models.LikeTargetVideo, &totals.Videos},
		{"comments", models.LikeTargetComment, &totals.Comments},
		{"tweets", models.LikeTargetTweet, &totals.Tweets},
	} {
		sql := fmt.Sprintf(`
            SELECT COUNT(*)
            FROM likes l
            JOIN %s t ON t.id = l.target_id AND l.target_kind = $1
            WHERE t.owner_id = $2
        `, target.table)
		if err := conn.QueryRow(ctx, sql, string(target.kind), channelID).Scan(target.dst); err != nil {
			return models.LikeTotals{}, fmt.Errorf("count %s likes received: %w", target.kind, err)
		}
	}

	return totals, nil
}
