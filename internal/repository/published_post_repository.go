package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
)

type PublishedPostRepository interface {
	Create(ctx context.Context, pp *models.PublishedPost) (int64, error)
	ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishedPost, error)
	ListByUserWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.PublishedPost, error)
}

type publishedPostRepository struct {
	db *sql.DB
}

func NewPublishedPostRepository(db *sql.DB) PublishedPostRepository {
	return &publishedPostRepository{db: db}
}

func (r *publishedPostRepository) Create(ctx context.Context, pp *models.PublishedPost) (int64, error) {
	query := `
		INSERT INTO published_posts (post_id, user_id, linkedin_post_id, organization_id, status, content, error_message, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pp.PostID, pp.UserID, pp.LinkedinPostID, pp.OrganizationID,
		pp.Status, pp.Content, pp.ErrorMessage, pp.PublishedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// ListPublishedSince returns successful publishes newer than the cutoff,
// used by the daily metrics job to bound its fetch set.
func (r *publishedPostRepository) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishedPost, error) {
	query := `
		SELECT id, post_id, user_id, linkedin_post_id, organization_id, status, content, error_message, published_at
		FROM published_posts
		WHERE status = $1 AND published_at >= $2
	`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPublished, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPublishedPosts(rows)
}

func (r *publishedPostRepository) ListByUserWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.PublishedPost, error) {
	query := `
		SELECT id, post_id, user_id, linkedin_post_id, organization_id, status, content, error_message, published_at
		FROM published_posts
		WHERE user_id = $1 AND published_at >= $2 AND published_at < $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPublishedPosts(rows)
}

func scanPublishedPosts(rows *sql.Rows) ([]*models.PublishedPost, error) {
	var posts []*models.PublishedPost
	for rows.Next() {
		var pp models.PublishedPost
		err := rows.Scan(&pp.ID, &pp.PostID, &pp.UserID, &pp.LinkedinPostID, &pp.OrganizationID,
			&pp.Status, &pp.Content, &pp.ErrorMessage, &pp.PublishedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &pp)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}
