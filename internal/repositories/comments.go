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

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, owner_id, video_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.OwnerID, comment.VideoID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// FindByID fetches a single comment.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, video_id, content, created_at, updated_at
        FROM comments
        WHERE id = $1
    `, id)

	var c models.Comment
	if err := row.Scan(&c.ID, &c.OwnerID, &c.VideoID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("select comment: %w", err)
	}

	return c, nil
}

// ListForVideo returns one page of a video's comments with the owner summary
// joined in. A well-formed id that matches nothing yields an empty page.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID string, page query.PageRequest) (query.Page[models.CommentWithOwner], error) {
	page = page.Normalize()

	whereClause, args := query.Where(query.OnVideo(videoID))

	span := logging.StartSpan(ctx, "comments.list")
	items, total, err := r.fetchPage(ctx, whereClause, args, page)
	if err != nil {
		span.Fail(err)
		return query.Page[models.CommentWithOwner]{}, err
	}
	span.End()

	return query.NewPage(items, total, page), nil
}

func (r *PostgresCommentRepository) fetchPage(ctx context.Context, whereClause string, args []any, page query.PageRequest) ([]models.CommentWithOwner, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments c `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	if total == 0 || int64(page.Offset()) >= total {
		return []models.CommentWithOwner{}, total, nil
	}

	selectSQL := fmt.Sprintf(`
        SELECT c.id, c.owner_id, c.video_id, c.content, c.created_at, c.updated_at,
               COALESCE(u.id, ''), COALESCE(u.username, ''), COALESCE(u.full_name, ''), COALESCE(u.avatar, '')
        FROM comments c
        LEFT JOIN users u ON u.id = c.owner_id
        %s
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT $%d OFFSET $%d
    `, whereClause, len(args)+1, len(args)+2)

	rows, err := conn.Query(ctx, selectSQL, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	items := []models.CommentWithOwner{}
	for rows.Next() {
		var item models.CommentWithOwner
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.VideoID, &item.Content, &item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.Avatar); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	return items, total, nil
}

// Update replaces a comment's content.
func (r *PostgresCommentRepository) Update(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE comments
        SET content = $2, updated_at = $3
        WHERE id = $1
    `, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a comment.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
