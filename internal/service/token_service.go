package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/transfer"
	"github.com/linkedbud/linkedbud/pkg/utils"
)

// TokenService is the refresh gate in front of the token store. GetToken
// either hands back a usable credential (decrypted, refreshed if necessary)
// or (nil, nil), in which case the caller prompts the user to reconnect.
type TokenService interface {
	GetToken(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error)
	HandleCallback(ctx context.Context, userID int64, tokenType, code string) error
	Revoke(ctx context.Context, userID int64, tokenType string) error
	ListOrganizations(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error)
}

type tokenService struct {
	cfg config.Config
	tr  repository.TokenRepository
	or  repository.OrganizationRepository
	li  LinkedinService
}

func NewTokenService(cfg config.Config, tr repository.TokenRepository, or repository.OrganizationRepository, li LinkedinService) TokenService {
	return &tokenService{
		cfg: cfg,
		tr:  tr,
		or:  or,
		li:  li,
	}
}

// tokenExpired treats a missing expiry as expired, forcing a refresh
// attempt before the credential is handed out.
func tokenExpired(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return true
	}
	return !expiresAt.After(now)
}

func (s *tokenService) GetToken(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
	token, err := s.tr.GetByUserAndType(ctx, userID, tokenType)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	accessToken, err := utils.Decrypt(token.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	if !tokenExpired(token.TokenExpiresAt, time.Now()) {
		token.AccessToken = accessToken
		if tokenType == models.TokenTypePersonal {
			s.refreshProfileData(ctx, token)
		}
		return token, nil
	}

	if token.RefreshToken == "" {
		slog.Info(fmt.Sprintf("expired %s token for user %d has no refresh token", tokenType, userID))
		return nil, nil
	}

	refreshed, err := s.refreshToken(ctx, token)
	if err != nil {
		// Reconnect-needed and transient failures are not distinguished
		// here; either way the caller gets no token.
		slog.Info(fmt.Sprintf("refresh of %s token for user %d failed: %v", tokenType, userID, err))
		return nil, nil
	}

	if tokenType == models.TokenTypePersonal {
		s.refreshProfileData(ctx, refreshed)
	}
	return refreshed, nil
}

// refreshToken runs the refresh-token grant and persists the new
// credential. The returned token carries the decrypted access token.
func (s *tokenService) refreshToken(ctx context.Context, token *models.LinkedinToken) (*models.LinkedinToken, error) {
	refreshToken, err := utils.Decrypt(token.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	tokenResponse, err := s.li.RefreshAccessToken(ctx, token.TokenType, refreshToken)
	if err != nil {
		return nil, err
	}
	if tokenResponse.AccessToken == "" {
		return nil, errors.New("refresh grant returned no access token")
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	var encryptedRefreshToken string
	if tokenResponse.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}
	}

	expiresAt := GetExpiresAt(tokenResponse.ExpiresIn)

	updated := models.LinkedinToken{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: expiresAt,
	}
	if err := s.tr.SetToken(ctx, token.UserID, token.TokenType, &updated); err != nil {
		return nil, err
	}

	token.AccessToken = tokenResponse.AccessToken
	if encryptedRefreshToken != "" {
		token.RefreshToken = encryptedRefreshToken
	}
	token.TokenExpiresAt = expiresAt
	return token, nil
}

// refreshProfileData re-validates a personal token against the userinfo
// endpoint and refreshes the cached display name and avatar. Best-effort:
// failures are swallowed and the token is returned as-is.
func (s *tokenService) refreshProfileData(ctx context.Context, token *models.LinkedinToken) {
	userinfo, err := s.li.Userinfo(ctx, token.AccessToken)
	if err != nil {
		slog.Info(fmt.Sprintf("profile revalidation for user %d failed: %v", token.UserID, err))
		return
	}

	var profile transfer.ProfileData
	if len(token.ProfileData) > 0 {
		if err := json.Unmarshal(token.ProfileData, &profile); err != nil {
			slog.Info(err.Error())
		}
	}

	if profile.Name == userinfo.Name && profile.Picture == userinfo.Picture {
		return
	}

	profile.Name = userinfo.Name
	profile.Picture = userinfo.Picture
	profile.Email = userinfo.Email

	profileData, err := json.Marshal(profile)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if err := s.tr.UpdateProfileData(ctx, token.UserID, token.TokenType, profileData); err != nil {
		slog.Info(err.Error())
		return
	}
	token.ProfileData = profileData
}

// HandleCallback finishes an OAuth connect flow: exchanges the code, pulls
// the identity behind the token and upserts the credential row. For the
// community flow it also captures the user's administered organizations.
func (s *tokenService) HandleCallback(ctx context.Context, userID int64, tokenType, code string) error {
	tokenResponse, err := s.li.ExchangeCode(ctx, tokenType, code)
	if err != nil {
		return err
	}

	var profile transfer.ProfileData

	if tokenType == models.TokenTypePersonal {
		userinfo, err := s.li.Userinfo(ctx, tokenResponse.AccessToken)
		if err != nil {
			return err
		}
		profile.Name = userinfo.Name
		profile.Picture = userinfo.Picture
		profile.Email = userinfo.Email
	} else {
		orgs, err := s.li.ListOrganizations(ctx, tokenResponse.AccessToken)
		if err != nil {
			return err
		}
		profile.Organizations = orgs

		orgModels := make([]*models.LinkedinOrganization, 0, len(orgs))
		for _, org := range orgs {
			orgModels = append(orgModels, &models.LinkedinOrganization{
				UserID:         userID,
				OrganizationID: org.OrganizationID,
				Name:           org.Name,
				LogoURL:        org.LogoURL,
			})
		}
		if err := s.or.ReplaceForUser(ctx, userID, orgModels); err != nil {
			return err
		}
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	var encryptedRefreshToken string
	if tokenResponse.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	profileData, err := json.Marshal(profile)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	token := &models.LinkedinToken{
		UserID:         userID,
		TokenType:      tokenType,
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: GetExpiresAt(tokenResponse.ExpiresIn),
		ProfileData:    profileData,
	}

	_, err = s.tr.Upsert(ctx, token)
	return err
}

// Revoke calls LinkedIn's revoke endpoint and deletes the row. Rows are
// never deleted automatically; this is the only removal path.
func (s *tokenService) Revoke(ctx context.Context, userID int64, tokenType string) error {
	token, err := s.tr.GetByUserAndType(ctx, userID, tokenType)
	if err != nil {
		return err
	}
	if token == nil {
		err = errors.New("no connected account for this permission")
		slog.Info(err.Error())
		return err
	}

	accessToken, err := utils.Decrypt(token.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	if err := s.li.RevokeToken(ctx, tokenType, accessToken); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("Unable to revoke access")
	}

	return s.tr.Remove(ctx, userID, tokenType)
}

func (s *tokenService) ListOrganizations(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error) {
	orgs, err := s.or.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting organizations")
	}
	return orgs, nil
}
