package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

const (
	linkedinAuthURL          = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenURL         = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinRevokeURL        = "https://www.linkedin.com/oauth/v2/revoke"
	linkedinUserinfoURL      = "https://api.linkedin.com/v2/userinfo"
	linkedinOrgAclsURL       = "https://api.linkedin.com/v2/organizationAcls"
	linkedinAssetsURL        = "https://api.linkedin.com/v2/assets?action=registerUpload"
	linkedinUgcPostsURL      = "https://api.linkedin.com/v2/ugcPosts"
	linkedinShareStatsURL    = "https://api.linkedin.com/v2/organizationalEntityShareStatistics"
	linkedinSocialActionsURL = "https://api.linkedin.com/v2/socialActions"
)

// Upload recipes per attachment kind.
const (
	recipeImage    = "urn:li:digitalmediaRecipe:feedshare-image"
	recipeDocument = "urn:li:digitalmediaRecipe:feedshare-document"
	recipeVideo    = "urn:li:digitalmediaRecipe:feedshare-video"
)

// LinkedinService is the raw LinkedIn API client. It holds no per-user
// state; tokens are passed in on every call.
type LinkedinService interface {
	GetAuthURL(tokenType, state string) string
	ExchangeCode(ctx context.Context, tokenType, code string) (*transfer.LinkedinTokenResponse, error)
	RefreshAccessToken(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error)
	RevokeToken(ctx context.Context, tokenType, accessToken string) error
	Userinfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserinfo, error)
	ListOrganizations(ctx context.Context, accessToken string) ([]transfer.OrganizationRecord, error)
	UploadAsset(ctx context.Context, accessToken, authorURN, kind string, data []byte) (string, error)
	CreatePost(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error)
	FetchShareStatistics(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error)
}

type linkedinService struct {
	cfg config.Config
}

func NewLinkedinService(cfg config.Config) LinkedinService {
	return &linkedinService{cfg: cfg}
}

func (s *linkedinService) app(tokenType string) config.LinkedinApp {
	if tokenType == models.TokenTypeCommunity {
		return s.cfg.LinkedinCommunity
	}
	return s.cfg.LinkedinPersonal
}

// OrganizationURN builds the author identifier for an organization page.
func OrganizationURN(organizationID string) string {
	return fmt.Sprintf("urn:li:organization:%s", organizationID)
}

// IsNumericID reports whether s is a non-empty all-digit string, the only
// shape an organization id may take.
func IsNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *linkedinService) GetAuthURL(tokenType, state string) string {
	app := s.app(tokenType)

	params := url.Values{}
	params.Add("response_type", "code")
	params.Add("client_id", app.ClientID)
	params.Add("redirect_uri", app.RedirectURI)
	params.Add("scope", app.Scopes)
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", linkedinAuthURL, params.Encode())
}

func (s *linkedinService) ExchangeCode(ctx context.Context, tokenType, code string) (*transfer.LinkedinTokenResponse, error) {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return nil, err
	}

	app := s.app(tokenType)

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", app.ClientID)
	data.Set("client_secret", app.ClientSecret)
	data.Set("redirect_uri", app.RedirectURI)

	return s.tokenRequest(ctx, data)
}

func (s *linkedinService) RefreshAccessToken(ctx context.Context, tokenType, refreshToken string) (*transfer.LinkedinTokenResponse, error) {
	app := s.app(tokenType)

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", app.ClientID)
	data.Set("client_secret", app.ClientSecret)

	return s.tokenRequest(ctx, data)
}

func (s *linkedinService) tokenRequest(ctx context.Context, data url.Values) (*transfer.LinkedinTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", linkedinTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var tokenResponse transfer.LinkedinTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("LinkedIn token endpoint returned %d: %s", resp.StatusCode, tokenResponse.ErrorDescription))
		return nil, fmt.Errorf("LinkedIn token endpoint returned status %d", resp.StatusCode)
	}

	return &tokenResponse, nil
}

// RevokeToken calls the revoke endpoint for the app the token belongs to.
// LinkedIn answers 200 even for tokens that were already revoked.
func (s *linkedinService) RevokeToken(ctx context.Context, tokenType, accessToken string) error {
	app := s.app(tokenType)

	data := url.Values{}
	data.Set("token", accessToken)
	data.Set("client_id", app.ClientID)
	data.Set("client_secret", app.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", linkedinRevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to revoke token, status code: %d", resp.StatusCode)
	}
	return nil
}

func (s *linkedinService) Userinfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserinfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", linkedinUserinfoURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("LinkedIn userinfo returned %d", resp.StatusCode))
		return nil, fmt.Errorf("LinkedIn userinfo returned status %d", resp.StatusCode)
	}

	var userinfo transfer.LinkedinUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&userinfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &userinfo, nil
}

// ListOrganizations fetches the organization pages the token owner
// administers (approved ADMINISTRATOR role assignments).
func (s *linkedinService) ListOrganizations(ctx context.Context, accessToken string) ([]transfer.OrganizationRecord, error) {
	requestURL := fmt.Sprintf("%s?q=roleAssignee&role=ADMINISTRATOR&state=APPROVED", linkedinOrgAclsURL)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("LinkedIn organizationAcls returned %d", resp.StatusCode))
		return nil, fmt.Errorf("LinkedIn organizationAcls returned status %d", resp.StatusCode)
	}

	var aclsResponse transfer.LinkedinOrganizationAclsResponse
	if err := json.NewDecoder(resp.Body).Decode(&aclsResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var orgs []transfer.OrganizationRecord
	for _, acl := range aclsResponse.Elements {
		// organizationalTarget is "urn:li:organization:<id>"
		id := acl.OrganizationalTarget
		if idx := strings.LastIndex(id, ":"); idx >= 0 {
			id = id[idx+1:]
		}
		orgs = append(orgs, transfer.OrganizationRecord{OrganizationID: id})
	}

	return orgs, nil
}

// UploadAsset registers an upload for the given kind (image, document or
// video), PUTs the raw bytes to the returned media URL and hands back the
// asset URN to reference from the post.
func (s *linkedinService) UploadAsset(ctx context.Context, accessToken, authorURN, kind string, data []byte) (string, error) {
	recipe := recipeImage
	switch kind {
	case models.AttachmentKindDocument:
		recipe = recipeDocument
	case models.AttachmentKindVideo:
		recipe = recipeVideo
	}

	registerRequest := transfer.RegisterUploadRequest{
		RegisterUploadRequest: transfer.RegisterUpload{
			Owner:   authorURN,
			Recipes: []string{recipe},
			ServiceRelationships: []transfer.Relationship{
				{
					RelationshipType: "OWNER",
					Identifier:       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	jsonData, err := json.Marshal(registerRequest)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", linkedinAssetsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("LinkedIn registerUpload returned %d: %s", resp.StatusCode, body))
		return "", fmt.Errorf("LinkedIn registerUpload returned status %d", resp.StatusCode)
	}

	var registerResponse transfer.RegisterUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&registerResponse); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	uploadURL := registerResponse.Value.UploadMechanism.MediaUploadHTTPRequest.UploadURL
	if uploadURL == "" {
		return "", errors.New("registerUpload response is missing the upload URL")
	}

	uploadReq, err := http.NewRequestWithContext(ctx, "PUT", uploadURL, bytes.NewReader(data))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	uploadReq.Header.Set("Authorization", "Bearer "+accessToken)
	for k, v := range registerResponse.Value.UploadMechanism.MediaUploadHTTPRequest.Headers {
		uploadReq.Header.Set(k, v)
	}

	uploadResp, err := client.Do(uploadReq)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer uploadResp.Body.Close()

	if uploadResp.StatusCode >= http.StatusMultipleChoices {
		slog.Info(fmt.Sprintf("LinkedIn media upload returned %d", uploadResp.StatusCode))
		return "", fmt.Errorf("LinkedIn media upload returned status %d", uploadResp.StatusCode)
	}

	return registerResponse.Value.Asset, nil
}

// CreatePost creates a UGC post. authorURN empty means a personal post:
// the author field is omitted entirely and LinkedIn attributes the post to
// the token owner's profile.
func (s *linkedinService) CreatePost(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
	if mediaCategory == "" {
		mediaCategory = "NONE"
	}

	postRequest := transfer.UgcPostRequest{
		Author:         authorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: transfer.UgcSpecificContent{
			ShareContent: transfer.UgcShareContent{
				ShareCommentary:    transfer.UgcText{Text: text},
				ShareMediaCategory: mediaCategory,
				Media:              media,
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	jsonData, err := json.Marshal(postRequest)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", linkedinUgcPostsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errorResponse transfer.LinkedinErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResponse); err == nil && errorResponse.Message != "" {
			slog.Info(fmt.Sprintf("LinkedIn ugcPosts returned %d: %s", resp.StatusCode, errorResponse.Message))
			return "", fmt.Errorf("LinkedIn post creation failed: %s", errorResponse.Message)
		}
		slog.Info(fmt.Sprintf("LinkedIn ugcPosts returned %d", resp.StatusCode))
		return "", fmt.Errorf("LinkedIn post creation returned status %d", resp.StatusCode)
	}

	var postResponse transfer.UgcPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&postResponse); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if postResponse.ID == "" {
		postResponse.ID = resp.Header.Get("X-RestLi-Id")
	}
	if postResponse.ID == "" {
		return "", errors.New("LinkedIn did not return a post id")
	}

	return postResponse.ID, nil
}

// FetchShareStatistics pulls engagement counters for one post. Organization
// posts go through the share statistics endpoint; personal posts only expose
// likes and comments via socialActions, so impressions stay zero there.
func (s *linkedinService) FetchShareStatistics(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
	if organizationURN != "" {
		return s.organizationShareStatistics(ctx, accessToken, postURN, organizationURN)
	}
	return s.socialActionsSummary(ctx, accessToken, postURN)
}

func (s *linkedinService) organizationShareStatistics(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
	params := url.Values{}
	params.Set("q", "organizationalEntity")
	params.Set("organizationalEntity", organizationURN)
	params.Set("ugcPosts[0]", postURN)
	requestURL := fmt.Sprintf("%s?%s", linkedinShareStatsURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("LinkedIn share statistics returned %d", resp.StatusCode))
		return nil, fmt.Errorf("LinkedIn share statistics returned status %d", resp.StatusCode)
	}

	var statsResponse transfer.ShareStatisticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&statsResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if len(statsResponse.Elements) == 0 {
		return &transfer.LinkedinShareStatistics{}, nil
	}

	stats := statsResponse.Elements[0].TotalShareStatistics
	return &stats, nil
}

func (s *linkedinService) socialActionsSummary(ctx context.Context, accessToken, postURN string) (*transfer.LinkedinShareStatistics, error) {
	requestURL := fmt.Sprintf("%s/%s", linkedinSocialActionsURL, url.PathEscape(postURN))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("LinkedIn socialActions returned %d", resp.StatusCode))
		return nil, fmt.Errorf("LinkedIn socialActions returned status %d", resp.StatusCode)
	}

	var actionsResponse transfer.SocialActionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&actionsResponse); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.LinkedinShareStatistics{
		Likes:    actionsResponse.LikesSummary.TotalLikes,
		Comments: actionsResponse.CommentsSummary.TotalComments,
	}, nil
}
