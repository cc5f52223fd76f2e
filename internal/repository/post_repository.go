package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	UpdateContent(ctx context.Context, post *models.Post) error
	MarkPublished(ctx context.Context, postID int64, publishTarget string, publishedAt time.Time) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, content, publish_target, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var scheduledTime interface{}
	if !post.ScheduledTime.IsZero() {
		scheduledTime = post.ScheduledTime
	}

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.UserID, post.Content, post.PublishTarget, scheduledTime, post.Status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.UserID, post.Content, post.PublishTarget, scheduledTime, post.Status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, user_id, content, publish_target, scheduled_time, status, published_at, created_at, updated_at FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := `SELECT id, user_id, content, publish_target, scheduled_time, status, published_at, created_at, updated_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET content = $1,
			publish_target = $2,
			scheduled_time = $3,
			status = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	var scheduledTime interface{}
	if !post.ScheduledTime.IsZero() {
		scheduledTime = post.ScheduledTime
	}

	_, err := r.db.ExecContext(ctx, query, post.Content, post.PublishTarget, scheduledTime, post.Status, post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// MarkPublished records a successful publish on the draft itself. Failed
// attempts never touch the draft row, only published_posts.
func (r *postRepository) MarkPublished(ctx context.Context, postID int64, publishTarget string, publishedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			publish_target = $2,
			published_at = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, publishTarget, publishedAt, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var scheduledTime, publishedAt sql.NullTime
	err := row.Scan(&post.ID, &post.UserID, &post.Content, &post.PublishTarget,
		&scheduledTime, &post.Status, &publishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if scheduledTime.Valid {
		post.ScheduledTime = scheduledTime.Time
	}
	if publishedAt.Valid {
		post.PublishedAt = publishedAt.Time
	}
	return &post, nil
}
