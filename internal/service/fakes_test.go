package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

// Function-field fakes for the repository and client interfaces. A nil
// field means the call is unexpected and fails loudly.

type fakePostRepo struct {
	GetByIDFn       func(ctx context.Context, id int64) (*models.Post, error)
	MarkPublishedFn func(ctx context.Context, postID int64, publishTarget string, publishedAt time.Time) error

	marked []int64
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	if f.GetByIDFn == nil {
		return nil, errors.New("unexpected GetByID")
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, errors.New("unexpected Create")
}

func (f *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, errors.New("unexpected GetByUserID")
}

func (f *fakePostRepo) UpdateContent(ctx context.Context, post *models.Post) error {
	return errors.New("unexpected UpdateContent")
}

func (f *fakePostRepo) MarkPublished(ctx context.Context, postID int64, publishTarget string, publishedAt time.Time) error {
	f.marked = append(f.marked, postID)
	if f.MarkPublishedFn != nil {
		return f.MarkPublishedFn(ctx, postID, publishTarget, publishedAt)
	}
	return nil
}

func (f *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, errors.New("unexpected CheckByUserID")
}

func (f *fakePostRepo) Remove(ctx context.Context, id int64) error {
	return errors.New("unexpected Remove")
}

type fakeAttachmentRepo struct {
	ListByPostIDFn func(ctx context.Context, postID int64) ([]*models.PostAttachment, error)
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, tx *sql.Tx, a *models.PostAttachment) (int64, error) {
	return 0, errors.New("unexpected Create")
}

func (f *fakeAttachmentRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostAttachment, error) {
	if f.ListByPostIDFn == nil {
		return nil, nil
	}
	return f.ListByPostIDFn(ctx, postID)
}

func (f *fakeAttachmentRepo) RemoveByPostID(ctx context.Context, postID int64) error {
	return errors.New("unexpected RemoveByPostID")
}

type fakePublishedPostRepo struct {
	ListByUserWindowFn func(ctx context.Context, userID int64, start, end time.Time) ([]*models.PublishedPost, error)

	attempts []*models.PublishedPost
}

func (f *fakePublishedPostRepo) Create(ctx context.Context, pp *models.PublishedPost) (int64, error) {
	f.attempts = append(f.attempts, pp)
	return int64(len(f.attempts)), nil
}

func (f *fakePublishedPostRepo) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishedPost, error) {
	return nil, errors.New("unexpected ListPublishedSince")
}

func (f *fakePublishedPostRepo) ListByUserWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.PublishedPost, error) {
	if f.ListByUserWindowFn == nil {
		return nil, nil
	}
	return f.ListByUserWindowFn(ctx, userID, start, end)
}

type fakeTokenRepo struct {
	GetByUserAndTypeFn func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error)

	setTokens []*models.LinkedinToken
	removed   int
}

func (f *fakeTokenRepo) GetByUserAndType(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
	if f.GetByUserAndTypeFn == nil {
		return nil, nil
	}
	return f.GetByUserAndTypeFn(ctx, userID, tokenType)
}

func (f *fakeTokenRepo) Upsert(ctx context.Context, t *models.LinkedinToken) (int64, error) {
	return 1, nil
}

func (f *fakeTokenRepo) SetToken(ctx context.Context, userID int64, tokenType string, t *models.LinkedinToken) error {
	f.setTokens = append(f.setTokens, t)
	return nil
}

func (f *fakeTokenRepo) UpdateProfileData(ctx context.Context, userID int64, tokenType string, profileData []byte) error {
	return nil
}

func (f *fakeTokenRepo) Remove(ctx context.Context, userID int64, tokenType string) error {
	f.removed++
	return nil
}

type fakeOrgRepo struct {
	CheckOwnershipFn func(ctx context.Context, userID int64, organizationID string) (bool, error)
}

func (f *fakeOrgRepo) ReplaceForUser(ctx context.Context, userID int64, orgs []*models.LinkedinOrganization) error {
	return nil
}

func (f *fakeOrgRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error) {
	return nil, nil
}

func (f *fakeOrgRepo) CheckOwnership(ctx context.Context, userID int64, organizationID string) (bool, error) {
	if f.CheckOwnershipFn == nil {
		return true, nil
	}
	return f.CheckOwnershipFn(ctx, userID, organizationID)
}

type fakeMetricsRepo struct {
	GetForDayFn      func(ctx context.Context, linkedinPostID string, userID int64, dayStart, dayEnd time.Time) (*models.PostMetrics, error)
	LatestForPostsFn func(ctx context.Context, linkedinPostIDs []string) (map[string]*models.PostMetrics, error)

	created []*models.PostMetrics
	updated []*models.PostMetrics
}

func (f *fakeMetricsRepo) GetForDay(ctx context.Context, linkedinPostID string, userID int64, dayStart, dayEnd time.Time) (*models.PostMetrics, error) {
	if f.GetForDayFn == nil {
		return nil, nil
	}
	return f.GetForDayFn(ctx, linkedinPostID, userID, dayStart, dayEnd)
}

func (f *fakeMetricsRepo) Create(ctx context.Context, m *models.PostMetrics) (int64, error) {
	f.created = append(f.created, m)
	return int64(len(f.created)), nil
}

func (f *fakeMetricsRepo) Update(ctx context.Context, m *models.PostMetrics) error {
	f.updated = append(f.updated, m)
	return nil
}

func (f *fakeMetricsRepo) LatestForPosts(ctx context.Context, linkedinPostIDs []string) (map[string]*models.PostMetrics, error) {
	if f.LatestForPostsFn == nil {
		return map[string]*models.PostMetrics{}, nil
	}
	return f.LatestForPostsFn(ctx, linkedinPostIDs)
}

type fakeTokenService struct {
	GetTokenFn func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error)
}

func (f *fakeTokenService) GetToken(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
	if f.GetTokenFn == nil {
		return nil, errors.New("unexpected GetToken")
	}
	return f.GetTokenFn(ctx, userID, tokenType)
}

func (f *fakeTokenService) HandleCallback(ctx context.Context, userID int64, tokenType, code string) error {
	return errors.New("unexpected HandleCallback")
}

func (f *fakeTokenService) Revoke(ctx context.Context, userID int64, tokenType string) error {
	return errors.New("unexpected Revoke")
}

func (f *fakeTokenService) ListOrganizations(ctx context.Context, userID int64) ([]*models.LinkedinOrganization, error) {
	return nil, errors.New("unexpected ListOrganizations")
}

type fakeLinkedin struct {
	RefreshAccessTokenFn   func(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error)
	CreatePostFn           func(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error)
	FetchShareStatisticsFn func(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error)
	UserinfoFn             func(ctx context.Context, accessToken string) (*transfer.LinkedinUserinfo, error)
}

func (f *fakeLinkedin) GetAuthURL(tokenType, state string) string { return "" }

func (f *fakeLinkedin) ExchangeCode(ctx context.Context, tokenType, code string) (*transfer.LinkedinTokenResponse, error) {
	return nil, errors.New("unexpected ExchangeCode")
}

func (f *fakeLinkedin) RefreshAccessToken(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error) {
	if f.RefreshAccessTokenFn == nil {
		return nil, errors.New("unexpected RefreshAccessToken")
	}
	return f.RefreshAccessTokenFn(ctx, tokenType, refreshToken)
}

func (f *fakeLinkedin) RevokeToken(ctx context.Context, tokenType, accessToken string) error {
	return nil
}

func (f *fakeLinkedin) Userinfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserinfo, error) {
	if f.UserinfoFn == nil {
		return nil, errors.New("unexpected Userinfo")
	}
	return f.UserinfoFn(ctx, accessToken)
}

func (f *fakeLinkedin) ListOrganizations(ctx context.Context, accessToken string) ([]transfer.OrganizationRecord, error) {
	return nil, errors.New("unexpected ListOrganizations")
}

func (f *fakeLinkedin) UploadAsset(ctx context.Context, accessToken, authorURN, kind string, data []byte) (string, error) {
	return "", errors.New("unexpected UploadAsset")
}

func (f *fakeLinkedin) CreatePost(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
	if f.CreatePostFn == nil {
		return "", errors.New("unexpected CreatePost")
	}
	return f.CreatePostFn(ctx, accessToken, authorURN, text, media, mediaCategory)
}

func (f *fakeLinkedin) FetchShareStatistics(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
	if f.FetchShareStatisticsFn == nil {
		return nil, errors.New("unexpected FetchShareStatistics")
	}
	return f.FetchShareStatisticsFn(ctx, accessToken, postURN, organizationURN)
}

type fakeSubscriptionRepo struct {
	GetBySubscriptionIDFn func(ctx context.Context, subscriptionID string) (*models.Subscription, error)

	upserts []*models.Subscription
}

func (f *fakeSubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	return nil, errors.New("unexpected GetByUserID")
}

func (f *fakeSubscriptionRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	if f.GetBySubscriptionIDFn == nil {
		return nil, nil
	}
	return f.GetBySubscriptionIDFn(ctx, subscriptionID)
}

func (f *fakeSubscriptionRepo) ListByParentID(ctx context.Context, parentSubscriptionID string) ([]*models.Subscription, error) {
	return nil, errors.New("unexpected ListByParentID")
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, s *models.Subscription) error {
	f.upserts = append(f.upserts, s)
	return nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	return nil
}

type fakeUserRepo struct {
	GetByEmailFn func(ctx context.Context, email string) (*models.User, bool, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return nil, false, errors.New("unexpected GetByID")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	if f.GetByEmailFn == nil {
		return nil, false, errors.New("unexpected GetByEmail")
	}
	return f.GetByEmailFn(ctx, email)
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	return 0, errors.New("unexpected Create")
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	return errors.New("unexpected Update")
}

func (f *fakeUserRepo) Remove(ctx context.Context, id int64) error {
	return errors.New("unexpected Remove")
}
