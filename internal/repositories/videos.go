package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/youtweet/backend/internal/db"
	"github.com/youtweet/backend/internal/logging"
	"github.com/youtweet/backend/internal/models"
	"github.com/youtweet/backend/internal/query"
)

const videoColumns = `id, owner_id, video_file, thumbnail, title, description, duration, views, published, media_status, created_at, updated_at`

const videoWithOwnerColumns = `
        v.id, v.owner_id, v.video_file, v.thumbnail, v.title, v.description,
        v.duration, v.views, v.published, v.media_status, v.created_at, v.updated_at,
        COALESCE(u.id, ''), COALESCE(u.username, ''), COALESCE(u.full_name, ''), COALESCE(u.avatar, '')`

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos,
// including the paginated listing queries with the owner join.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, video_file, thumbnail, title, description, duration, views, published, media_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, video.ID, video.OwnerID, video.VideoFile, video.Thumbnail, video.Title, video.Description,
		video.Duration, video.Views, video.Published, video.MediaStatus, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrConflict
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a single video without the owner join.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE id = $1
    `, id)

	var v models.Video
	if err := row.Scan(&v.ID, &v.OwnerID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description,
		&v.Duration, &v.Views, &v.Published, &v.MediaStatus, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return v, nil
}

// List executes the video feed query: match stages from the filter, a single
// left-join owner lookup, the declared sort, and pagination. Zero matches is
// a valid empty page.
func (r *PostgresVideoRepository) List(ctx context.Context, filter query.VideoFilter, sort query.Sort, page query.PageRequest) (query.Page[models.VideoWithOwner], error) {
	page = page.Normalize()

	conds, err := filter.Conditions()
	if err != nil {
		return query.Page[models.VideoWithOwner]{}, err
	}

	orderClause, err := sort.Clause(query.VideoSortFields, "v")
	if err != nil {
		return query.Page[models.VideoWithOwner]{}, err
	}

	whereClause, args := query.Where(conds...)

	span := logging.StartSpan(ctx, "videos.list")
	items, total, err := r.fetchPage(ctx, whereClause, orderClause, args, page)
	if err != nil {
		span.Fail(err)
		return query.Page[models.VideoWithOwner]{}, err
	}
	span.End()

	return query.NewPage(items, total, page), nil
}

// ListByChannel returns the published videos of one channel, newest first,
// with the owner summary flattened onto each item.
func (r *PostgresVideoRepository) ListByChannel(ctx context.Context, channelID string, page query.PageRequest) (query.Page[models.VideoWithOwner], error) {
	return r.List(ctx, query.VideoFilter{OwnerID: channelID}, query.Sort{}, page)
}

func (r *PostgresVideoRepository) fetchPage(ctx context.Context, whereClause, orderClause string, args []any, page query.PageRequest) ([]models.VideoWithOwner, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM videos v %s`, whereClause)
	if err := conn.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	if total == 0 || int64(page.Offset()) >= total {
		return []models.VideoWithOwner{}, total, nil
	}

	selectSQL := fmt.Sprintf(`
        SELECT %s
        FROM videos v
        LEFT JOIN users u ON u.id = v.owner_id
        %s
        %s
        LIMIT $%d OFFSET $%d
    `, videoWithOwnerColumns, whereClause, orderClause, len(args)+1, len(args)+2)

	rows, err := conn.Query(ctx, selectSQL, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	items := []models.VideoWithOwner{}
	for rows.Next() {
		item, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return items, total, nil
}

// Update modifies the editable fields of a video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail = $4, published = $5, updated_at = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.Thumbnail, video.Published, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video. Dependent rows (comments, likes, playlist
// membership, watch history) cascade at the schema level.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the view counter and returns the new value.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var views int64
	err = conn.QueryRow(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
        RETURNING views
    `, id).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}

	return views, nil
}

// MarkMediaReady records the stored media locations after a successful
// upload to the object store.
func (r *PostgresVideoRepository) MarkMediaReady(ctx context.Context, id, videoURL, thumbnailURL string, duration float64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET media_status = $2, video_file = $3, thumbnail = $4, duration = $5
        WHERE id = $1
    `, id, models.MediaStatusReady, videoURL, thumbnailURL, duration)
	if err != nil {
		return fmt.Errorf("update video media ready: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkMediaFailed records a failed media upload for the video.
func (r *PostgresVideoRepository) MarkMediaFailed(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET media_status = $2, video_file = '', thumbnail = ''
        WHERE id = $1
    `, id, models.MediaStatusFailed)
	if err != nil {
		return fmt.Errorf("update video media failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanVideoWithOwner(row pgx.Row) (models.VideoWithOwner, error) {
	var item models.VideoWithOwner
	err := row.Scan(&item.ID, &item.OwnerID, &item.VideoFile, &item.Thumbnail, &item.Title, &item.Description,
		&item.Duration, &item.Views, &item.Published, &item.MediaStatus, &item.CreatedAt, &item.UpdatedAt,
		&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.Avatar)
	return item, err
}
