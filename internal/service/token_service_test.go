package service

import (
	"context"
	"errors"
	"testing"
	"time"

	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
	"github.com/linkedbud/linkedbud/pkg/utils"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{name: "zero value", expiresAt: time.Time{}, want: true},
		{name: "in the past", expiresAt: now.Add(-time.Hour), want: true},
		{name: "exactly now", expiresAt: now, want: true},
		{name: "in the future", expiresAt: now.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(tt.expiresAt, now); got != tt.want {
				t.Errorf("tokenExpired(%v) = %v, want %v", tt.expiresAt, got, tt.want)
			}
		})
	}
}

func encryptForTest(t *testing.T, plaintext string) string {
	t.Helper()
	encrypted, err := utils.Encrypt([]byte(plaintext), []byte(testSecretKey))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return encrypted
}

func newTokenFixture(tr *fakeTokenRepo, li *fakeLinkedin) TokenService {
	cfg := config.Config{SecretKey: testSecretKey}
	return NewTokenService(cfg, tr, &fakeOrgRepo{}, li)
}

func TestGetTokenAbsent(t *testing.T) {
	svc := newTokenFixture(&fakeTokenRepo{}, &fakeLinkedin{})

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypeCommunity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != nil {
		t.Errorf("expected nil token for unconnected user, got %+v", token)
	}
}

func TestGetTokenValid(t *testing.T) {
	tr := &fakeTokenRepo{
		GetByUserAndTypeFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
			return &models.LinkedinToken{
				UserID:         userID,
				TokenType:      tokenType,
				AccessToken:    encryptForTest(t, "live-access-token"),
				TokenExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	svc := newTokenFixture(tr, &fakeLinkedin{})

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypeCommunity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == nil {
		t.Fatal("expected a token")
	}
	if token.AccessToken != "live-access-token" {
		t.Errorf("access token = %q, want decrypted plaintext", token.AccessToken)
	}
	if len(tr.setTokens) != 0 {
		t.Error("unexpired token should not be rewritten")
	}
}

func TestGetTokenRefresh(t *testing.T) {
	tr := &fakeTokenRepo{
		GetByUserAndTypeFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
			return &models.LinkedinToken{
				UserID:         userID,
				TokenType:      tokenType,
				AccessToken:    encryptForTest(t, "stale-access-token"),
				RefreshToken:   encryptForTest(t, "refresh-token"),
				TokenExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	li := &fakeLinkedin{
		RefreshAccessTokenFn: func(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error) {
			if refreshToken != "refresh-token" {
				t.Errorf("refresh grant got %q, want decrypted refresh token", refreshToken)
			}
			return &transfer.LinkedinTokenResponse{
				AccessToken:  "fresh-access-token",
				RefreshToken: "fresh-refresh-token",
				ExpiresIn:    3600,
			}, nil
		},
	}
	svc := newTokenFixture(tr, li)

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypeCommunity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == nil {
		t.Fatal("expected a refreshed token")
	}
	if token.AccessToken != "fresh-access-token" {
		t.Errorf("access token = %q, want refreshed plaintext", token.AccessToken)
	}
	if token.TokenExpiresAt.Before(time.Now()) {
		t.Error("refreshed token should carry a future expiry")
	}

	if len(tr.setTokens) != 1 {
		t.Fatalf("expected 1 persisted refresh, got %d", len(tr.setTokens))
	}
	stored := tr.setTokens[0]
	if stored.AccessToken == "fresh-access-token" {
		t.Error("persisted access token must be encrypted")
	}
	decrypted, err := utils.Decrypt(stored.AccessToken, []byte(testSecretKey))
	if err != nil || decrypted != "fresh-access-token" {
		t.Errorf("persisted token did not round-trip: %q, %v", decrypted, err)
	}
}

func TestGetTokenRefreshFailure(t *testing.T) {
	tr := &fakeTokenRepo{
		GetByUserAndTypeFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
			return &models.LinkedinToken{
				UserID:         userID,
				TokenType:      tokenType,
				AccessToken:    encryptForTest(t, "stale-access-token"),
				RefreshToken:   encryptForTest(t, "refresh-token"),
				TokenExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	li := &fakeLinkedin{
		RefreshAccessTokenFn: func(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error) {
			return nil, errors.New("invalid_grant")
		},
	}
	svc := newTokenFixture(tr, li)

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypeCommunity)
	if err != nil {
		t.Fatalf("refresh failure must not surface an error, got %v", err)
	}
	if token != nil {
		t.Errorf("refresh failure must yield no token, got %+v", token)
	}
}

func TestGetTokenExpiredWithoutRefreshToken(t *testing.T) {
	tr := &fakeTokenRepo{
		GetByUserAndTypeFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
			return &models.LinkedinToken{
				UserID:         userID,
				TokenType:      tokenType,
				AccessToken:    encryptForTest(t, "stale-access-token"),
				TokenExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	svc := newTokenFixture(tr, &fakeLinkedin{})

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypeCommunity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != nil {
		t.Errorf("unrefreshable token must yield nil, got %+v", token)
	}
}

func TestGetTokenPersonalRevalidatesProfile(t *testing.T) {
	tr := &fakeTokenRepo{
		GetByUserAndTypeFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
			return &models.LinkedinToken{
				UserID:         userID,
				TokenType:      tokenType,
				AccessToken:    encryptForTest(t, "live-access-token"),
				TokenExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	userinfoCalls := 0
	li := &fakeLinkedin{
		UserinfoFn: func(ctx context.Context, accessToken string) (*transfer.LinkedinUserinfo, error) {
			userinfoCalls++
			return &transfer.LinkedinUserinfo{Name: "Jordan", Picture: "https://cdn/pic"}, nil
		},
	}
	svc := newTokenFixture(tr, li)

	token, err := svc.GetToken(context.Background(), 1, models.TokenTypePersonal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == nil {
		t.Fatal("expected a token")
	}
	if userinfoCalls != 1 {
		t.Errorf("personal token handoff should revalidate the profile once, got %d calls", userinfoCalls)
	}
}
