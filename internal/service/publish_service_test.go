package service

import (
	"context"
	"errors"
	"testing"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

func TestResolveAuthor(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		tokenType      string
		authorURN      string
		organizationID string
		wantErr        bool
	}{
		{name: "personal", target: "personal", tokenType: models.TokenTypePersonal, authorURN: "", organizationID: ""},
		{name: "organization", target: "12345", tokenType: models.TokenTypeCommunity, authorURN: "urn:li:organization:12345", organizationID: "12345"},
		{name: "vanity name", target: "acme-corp", wantErr: true},
		{name: "mixed digits", target: "12a45", wantErr: true},
		{name: "empty", target: "", wantErr: true},
		{name: "urn instead of id", target: "urn:li:organization:12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenType, authorURN, organizationID, err := ResolveAuthor(tt.target)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPublishTarget) {
					t.Fatalf("expected ErrInvalidPublishTarget, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokenType != tt.tokenType || authorURN != tt.authorURN || organizationID != tt.organizationID {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)",
					tokenType, authorURN, organizationID, tt.tokenType, tt.authorURN, tt.organizationID)
			}
		})
	}
}

func testPost() *models.Post {
	return &models.Post{
		ID:            7,
		UserID:        1,
		Content:       "hello",
		PublishTarget: models.PublishTargetPersonal,
		Status:        models.PostStatusDraft,
	}
}

type publishFixture struct {
	pr  *fakePostRepo
	pp  *fakePublishedPostRepo
	or  *fakeOrgRepo
	ts  *fakeTokenService
	li  *fakeLinkedin
	svc PublishService
}

func newPublishFixture(post *models.Post) *publishFixture {
	f := &publishFixture{
		pr: &fakePostRepo{
			GetByIDFn: func(ctx context.Context, id int64) (*models.Post, error) {
				if id != post.ID {
					return nil, nil
				}
				return post, nil
			},
		},
		pp: &fakePublishedPostRepo{},
		or: &fakeOrgRepo{},
		ts: &fakeTokenService{
			GetTokenFn: func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
				return &models.LinkedinToken{UserID: userID, TokenType: tokenType, AccessToken: "plain-token"}, nil
			},
		},
		li: &fakeLinkedin{},
	}
	f.svc = NewPublishService(f.pr, &fakeAttachmentRepo{}, f.pp, f.or, f.ts, f.li, nil)
	return f
}

func TestPublishSuccess(t *testing.T) {
	post := testPost()
	f := newPublishFixture(post)

	f.li.CreatePostFn = func(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
		if accessToken != "plain-token" {
			t.Errorf("access token = %q", accessToken)
		}
		if authorURN != "" {
			t.Errorf("personal post should have no author URN, got %q", authorURN)
		}
		return "urn:li:share:42", nil
	}

	result, err := f.svc.Publish(context.Background(), 1, post.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LinkedinPostID != "urn:li:share:42" {
		t.Errorf("LinkedinPostID = %q", result.LinkedinPostID)
	}

	if len(f.pp.attempts) != 1 {
		t.Fatalf("expected 1 attempt record, got %d", len(f.pp.attempts))
	}
	attempt := f.pp.attempts[0]
	if attempt.Status != models.PostStatusPublished || attempt.LinkedinPostID != "urn:li:share:42" {
		t.Errorf("attempt = %+v", attempt)
	}
	if attempt.OrganizationID != "" {
		t.Errorf("personal attempt should have no organization id, got %q", attempt.OrganizationID)
	}

	if len(f.pr.marked) != 1 || f.pr.marked[0] != post.ID {
		t.Errorf("expected draft %d marked published, got %v", post.ID, f.pr.marked)
	}
}

func TestPublishOrganizationTarget(t *testing.T) {
	post := testPost()
	post.PublishTarget = "9876"
	f := newPublishFixture(post)

	var gotTokenType string
	f.ts.GetTokenFn = func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
		gotTokenType = tokenType
		return &models.LinkedinToken{AccessToken: "plain-token"}, nil
	}
	f.li.CreatePostFn = func(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
		if authorURN != "urn:li:organization:9876" {
			t.Errorf("author URN = %q", authorURN)
		}
		return "urn:li:share:1", nil
	}

	if _, err := f.svc.Publish(context.Background(), 1, post.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTokenType != models.TokenTypeCommunity {
		t.Errorf("token type = %q, want community", gotTokenType)
	}
	if f.pp.attempts[0].OrganizationID != "9876" {
		t.Errorf("attempt organization id = %q", f.pp.attempts[0].OrganizationID)
	}
}

func TestPublishInvalidTargetBeforeTokenLookup(t *testing.T) {
	post := testPost()
	f := newPublishFixture(post)

	tokenLookups := 0
	f.ts.GetTokenFn = func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
		tokenLookups++
		return nil, nil
	}

	_, err := f.svc.Publish(context.Background(), 1, post.ID, "acme-corp")
	if !errors.Is(err, ErrInvalidPublishTarget) {
		t.Fatalf("expected ErrInvalidPublishTarget, got %v", err)
	}
	if tokenLookups != 0 {
		t.Errorf("token lookup ran for an invalid target")
	}
	if len(f.pp.attempts) != 0 {
		t.Errorf("invalid target must not record an attempt")
	}
}

func TestPublishMissingToken(t *testing.T) {
	post := testPost()
	post.PublishTarget = "9876"
	f := newPublishFixture(post)

	f.ts.GetTokenFn = func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
		return nil, nil
	}

	_, err := f.svc.Publish(context.Background(), 1, post.ID, "")
	var missing *MissingPermissionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPermissionError, got %v", err)
	}
	if missing.TokenType != models.TokenTypeCommunity {
		t.Errorf("missing token type = %q", missing.TokenType)
	}
	if len(f.pp.attempts) != 0 {
		t.Errorf("missing token must not record an attempt")
	}
}

func TestPublishProviderFailure(t *testing.T) {
	post := testPost()
	f := newPublishFixture(post)

	f.li.CreatePostFn = func(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
		return "", errors.New("429 too many requests")
	}

	if _, err := f.svc.Publish(context.Background(), 1, post.ID, ""); err == nil {
		t.Fatal("expected error")
	}

	if len(f.pp.attempts) != 1 {
		t.Fatalf("expected 1 failed attempt record, got %d", len(f.pp.attempts))
	}
	attempt := f.pp.attempts[0]
	if attempt.Status != models.PostStatusFailed {
		t.Errorf("attempt status = %q, want FAILED", attempt.Status)
	}
	if attempt.ErrorMessage == "" {
		t.Error("failed attempt should carry the provider error")
	}
	if attempt.LinkedinPostID != "" {
		t.Errorf("failed attempt must have no post id, got %q", attempt.LinkedinPostID)
	}

	// The draft stays untouched on failure.
	if len(f.pr.marked) != 0 {
		t.Errorf("draft mutated on failure: marked=%v", f.pr.marked)
	}
}

func TestPublishUnownedOrganization(t *testing.T) {
	post := testPost()
	f := newPublishFixture(post)

	f.or.CheckOwnershipFn = func(ctx context.Context, userID int64, organizationID string) (bool, error) {
		return false, nil
	}
	tokenLookups := 0
	f.ts.GetTokenFn = func(ctx context.Context, userID int64, tokenType string) (*models.LinkedinToken, error) {
		tokenLookups++
		return nil, nil
	}
	providerCalls := 0
	f.li.CreatePostFn = func(ctx context.Context, accessToken, authorURN, text string, media []transfer.UgcMedia, mediaCategory string) (string, error) {
		providerCalls++
		return "urn:li:share:1", nil
	}

	// The override names an organization never connected to this account.
	_, err := f.svc.Publish(context.Background(), 1, post.ID, "424242")
	if !errors.Is(err, ErrUnownedOrganization) {
		t.Fatalf("expected ErrUnownedOrganization, got %v", err)
	}
	if tokenLookups != 0 {
		t.Errorf("token lookup ran for an unowned organization")
	}
	if providerCalls != 0 {
		t.Errorf("provider was called for an unowned organization")
	}
	if len(f.pp.attempts) != 0 {
		t.Errorf("unowned organization must not record an attempt")
	}
}

func TestPublishWrongOwner(t *testing.T) {
	post := testPost()
	f := newPublishFixture(post)

	if _, err := f.svc.Publish(context.Background(), 99, post.ID, ""); err == nil {
		t.Fatal("expected error for another user's post")
	}
	if len(f.pp.attempts) != 0 {
		t.Errorf("ownership failure must not record an attempt")
	}
}
