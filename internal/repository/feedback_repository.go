package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkedbud/linkedbud/internal/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, f *models.Feedback) (int64, error)
}

type feedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, f *models.Feedback) (int64, error) {
	query := `
		INSERT INTO feedback (feedback_id, user_id, message, screenshot_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, f.FeedbackID, f.UserID, f.Message, f.ScreenshotKey).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}
