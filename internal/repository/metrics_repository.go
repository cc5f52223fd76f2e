package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/linkedbud/linkedbud/internal/models"
)

type MetricsRepository interface {
	GetForDay(ctx context.Context, linkedinPostID string, userID int64, dayStart, dayEnd time.Time) (*models.PostMetrics, error)
	Create(ctx context.Context, m *models.PostMetrics) (int64, error)
	Update(ctx context.Context, m *models.PostMetrics) error
	LatestForPosts(ctx context.Context, linkedinPostIDs []string) (map[string]*models.PostMetrics, error)
}

type metricsRepository struct {
	db *sql.DB
}

func NewMetricsRepository(db *sql.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) GetForDay(ctx context.Context, linkedinPostID string, userID int64, dayStart, dayEnd time.Time) (*models.PostMetrics, error) {
	query := `
		SELECT id, linkedin_post_id, user_id, impressions, likes, comments, shares, clicks, engagement_rate, snapshot_at
		FROM post_metrics
		WHERE linkedin_post_id = $1 AND user_id = $2 AND snapshot_at >= $3 AND snapshot_at < $4
	`
	row := r.db.QueryRowContext(ctx, query, linkedinPostID, userID, dayStart, dayEnd)

	var m models.PostMetrics
	err := row.Scan(&m.ID, &m.LinkedinPostID, &m.UserID, &m.Impressions, &m.Likes,
		&m.Comments, &m.Shares, &m.Clicks, &m.EngagementRate, &m.SnapshotAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &m, nil
}

func (r *metricsRepository) Create(ctx context.Context, m *models.PostMetrics) (int64, error) {
	query := `
		INSERT INTO post_metrics (linkedin_post_id, user_id, impressions, likes, comments, shares, clicks, engagement_rate, snapshot_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		m.LinkedinPostID, m.UserID, m.Impressions, m.Likes, m.Comments,
		m.Shares, m.Clicks, m.EngagementRate, m.SnapshotAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *metricsRepository) Update(ctx context.Context, m *models.PostMetrics) error {
	query := `
		UPDATE post_metrics
		SET impressions = $1,
			likes = $2,
			comments = $3,
			shares = $4,
			clicks = $5,
			engagement_rate = $6,
			snapshot_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		m.Impressions, m.Likes, m.Comments, m.Shares, m.Clicks,
		m.EngagementRate, m.SnapshotAt, m.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// LatestForPosts returns the newest snapshot per post, keyed by the LinkedIn
// post id. Posts with no snapshot yet are simply absent from the map.
func (r *metricsRepository) LatestForPosts(ctx context.Context, linkedinPostIDs []string) (map[string]*models.PostMetrics, error) {
	if len(linkedinPostIDs) == 0 {
		return map[string]*models.PostMetrics{}, nil
	}

	query := `
		SELECT DISTINCT ON (linkedin_post_id)
			id, linkedin_post_id, user_id, impressions, likes, comments, shares, clicks, engagement_rate, snapshot_at
		FROM post_metrics
		WHERE linkedin_post_id = ANY($1)
		ORDER BY linkedin_post_id, snapshot_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(linkedinPostIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]*models.PostMetrics, len(linkedinPostIDs))
	for rows.Next() {
		var m models.PostMetrics
		err := rows.Scan(&m.ID, &m.LinkedinPostID, &m.UserID, &m.Impressions, &m.Likes,
			&m.Comments, &m.Shares, &m.Clicks, &m.EngagementRate, &m.SnapshotAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		latest[m.LinkedinPostID] = &m
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return latest, nil
}
