package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkedbud/linkedbud/internal/models"
)

type OrganizationRepository interface {
	ReplaceForUser(ctx context.Context, userID int64, orgs []*models.LinkedinOrganization) error
	ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error)
	CheckOwnership(ctx context.Context, userID int64, organizationID string) (bool, error)
}

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// ReplaceForUser swaps the user's administered organization list for the one
// just fetched from the organization ACL endpoint.
func (r *organizationRepository) ReplaceForUser(ctx context.Context, userID int64, orgs []*models.LinkedinOrganization) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM linkedin_organizations WHERE user_id = $1`, userID); err != nil {
		slog.Info(err.Error())
		return err
	}

	insertQuery := `
		INSERT INTO linkedin_organizations (user_id, organization_id, name, logo_url)
		VALUES ($1, $2, $3, $4)
	`
	for _, org := range orgs {
		if _, err := tx.ExecContext(ctx, insertQuery, userID, org.OrganizationID, org.Name, org.LogoURL); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *organizationRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error) {
	query := `SELECT id, user_id, organization_id, name, logo_url, created_at FROM linkedin_organizations WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.LinkedinOrganization
	for rows.Next() {
		var org models.LinkedinOrganization
		err := rows.Scan(&org.ID, &org.UserID, &org.OrganizationID, &org.Name, &org.LogoURL, &org.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		orgs = append(orgs, &org)
	}
	return orgs, nil
}

func (r *organizationRepository) CheckOwnership(ctx context.Context, userID int64, organizationID string) (bool, error) {
	query := `SELECT 1 FROM linkedin_organizations WHERE user_id = $1 AND organization_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, userID, organizationID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
