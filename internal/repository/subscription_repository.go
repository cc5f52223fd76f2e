package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkedbud/linkedbud/internal/models"
)

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	ListByParentID(ctx context.Context, parentSubscriptionID string) ([]*models.Subscription, error)
	Upsert(ctx context.Context, s *models.Subscription) error
	UpdateStatus(ctx context.Context, subscriptionID, status string) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, parent_subscription_id, status, renews_at, ends_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1 AND parent_subscription_id = ''
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *subscriptionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, parent_subscription_id, status, renews_at, ends_at, created_at, updated_at
		FROM subscriptions
		WHERE subscription_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, subscriptionID))
}

func (r *subscriptionRepository) ListByParentID(ctx context.Context, parentSubscriptionID string) ([]*models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, parent_subscription_id, status, renews_at, ends_at, created_at, updated_at
		FROM subscriptions
		WHERE parent_subscription_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, parentSubscriptionID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var s models.Subscription
		var renewsAt, endsAt sql.NullTime
		err := rows.Scan(&s.ID, &s.UserID, &s.SubscriptionID, &s.ParentSubscriptionID,
			&s.Status, &renewsAt, &endsAt, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if renewsAt.Valid {
			s.RenewsAt = renewsAt.Time
		}
		if endsAt.Valid {
			s.EndsAt = endsAt.Time
		}
		subs = append(subs, &s)
	}
	return subs, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, s *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, subscription_id, parent_subscription_id, status, renews_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subscription_id) DO UPDATE
		SET status = EXCLUDED.status,
			renews_at = EXCLUDED.renews_at,
			ends_at = EXCLUDED.ends_at,
			updated_at = CURRENT_TIMESTAMP
	`

	var renewsAt, endsAt interface{}
	if !s.RenewsAt.IsZero() {
		renewsAt = s.RenewsAt
	}
	if !s.EndsAt.IsZero() {
		endsAt = s.EndsAt
	}

	_, err := r.db.ExecContext(ctx, query, s.UserID, s.SubscriptionID, s.ParentSubscriptionID, s.Status, renewsAt, endsAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	query := `
		UPDATE subscriptions
		SET status = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE subscription_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, subscriptionID, status)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *subscriptionRepository) scanOne(row *sql.Row) (*models.Subscription, error) {
	var s models.Subscription
	var renewsAt, endsAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.SubscriptionID, &s.ParentSubscriptionID,
		&s.Status, &renewsAt, &endsAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	if renewsAt.Valid {
		s.RenewsAt = renewsAt.Time
	}
	if endsAt.Valid {
		s.EndsAt = endsAt.Time
	}
	return &s, nil
}
