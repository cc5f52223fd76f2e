package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkedbud/linkedbud/internal/models"
)

type TokenRepository interface {
	GetByUserAndType(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error)
	Upsert(ctx context.Context, t *models.LinkedinToken) (int64, error)
	SetToken(ctx context.Context, userID int64, tokenType string, t *models.LinkedinToken) error
	UpdateProfileData(ctx context.Context, userID int64, tokenType string, profileData []byte) error
	Remove(ctx context.Context, userID int64, tokenType string) error
}

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetByUserAndType(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
	query := `
		SELECT id, user_id, token_type, access_token, refresh_token,
			token_expires_at, profile_data, is_active, created_at, updated_at
		FROM linkedin_tokens
		WHERE user_id = $1 AND token_type = $2 AND is_active = TRUE
	`
	row := r.db.QueryRowContext(ctx, query, userID, tokenType)

	var t models.LinkedinToken
	var expiresAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.TokenType, &t.AccessToken, &t.RefreshToken,
		&expiresAt, &t.ProfileData, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	if expiresAt.Valid {
		t.TokenExpiresAt = expiresAt.Time
	}

	return &t, nil
}

// Upsert replaces the credential for (user_id, token_type). One active row
// per pair is enforced by the unique index, last write wins.
func (r *tokenRepository) Upsert(ctx context.Context, t *models.LinkedinToken) (int64, error) {
	query := `
		INSERT INTO linkedin_tokens (user_id, token_type, access_token, refresh_token, token_expires_at, profile_data, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (user_id, token_type) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			profile_data = EXCLUDED.profile_data,
			is_active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var expiresAt interface{}
	if !t.TokenExpiresAt.IsZero() {
		expiresAt = t.TokenExpiresAt
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.TokenType, t.AccessToken, t.RefreshToken, expiresAt, t.ProfileData).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *tokenRepository) SetToken(ctx context.Context, userID int64, tokenType string, t *models.LinkedinToken) error {
	query := `
		UPDATE linkedin_tokens
		SET access_token = $3,
			refresh_token = COALESCE(NULLIF($4, ''), refresh_token),
			token_expires_at = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND token_type = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, tokenType, t.AccessToken, t.RefreshToken, t.TokenExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no token row updated; credential may have been removed")
		return sql.ErrNoRows
	}

	return nil
}

func (r *tokenRepository) UpdateProfileData(ctx context.Context, userID int64, tokenType string, profileData []byte) error {
	query := `
		UPDATE linkedin_tokens
		SET profile_data = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND token_type = $2
	`
	_, err := r.db.ExecContext(ctx, query, userID, tokenType, profileData)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *tokenRepository) Remove(ctx context.Context, userID int64, tokenType string) error {
	query := `DELETE FROM linkedin_tokens WHERE user_id = $1 AND token_type = $2`
	_, err := r.db.ExecContext(ctx, query, userID, tokenType)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
