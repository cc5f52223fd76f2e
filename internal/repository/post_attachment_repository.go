package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkedbud/linkedbud/internal/models"
)

type PostAttachmentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, a *models.PostAttachment) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostAttachment, error)
	RemoveByPostID(ctx context.Context, postID int64) error
}

type postAttachmentRepository struct {
	db *sql.DB
}

func NewPostAttachmentRepository(db *sql.DB) PostAttachmentRepository {
	return &postAttachmentRepository{db: db}
}

func (r *postAttachmentRepository) Create(ctx context.Context, tx *sql.Tx, a *models.PostAttachment) (int64, error) {
	query := `
		INSERT INTO post_attachments (post_id, kind, file_name, content_type, file_size, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, a.PostID, a.Kind, a.FileName, a.ContentType, a.FileSize, a.StorageKey).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, a.PostID, a.Kind, a.FileName, a.ContentType, a.FileSize, a.StorageKey).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postAttachmentRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostAttachment, error) {
	query := `SELECT id, post_id, kind, file_name, content_type, file_size, storage_key, created_at FROM post_attachments WHERE post_id = $1`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.PostAttachment
	for rows.Next() {
		var a models.PostAttachment
		err := rows.Scan(&a.ID, &a.PostID, &a.Kind, &a.FileName, &a.ContentType, &a.FileSize, &a.StorageKey, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		attachments = append(attachments, &a)
	}
	return attachments, nil
}

func (r *postAttachmentRepository) RemoveByPostID(ctx context.Context, postID int64) error {
	query := `DELETE FROM post_attachments WHERE post_id = $1`
	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
