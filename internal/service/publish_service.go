package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

// ErrInvalidPublishTarget marks a target that is neither "personal" nor a
// numeric organization id. Raised before any network call.
var ErrInvalidPublishTarget = errors.New("publish target must be \"personal\" or a numeric organization id")

// ErrUnownedOrganization marks an organization target with no matching row
// in linkedin_organizations for the user. Raised before token resolution.
var ErrUnownedOrganization = errors.New("organization is not connected to this account")

// MissingPermissionError means no valid token exists for the permission a
// publish requires. Not retryable; the user has to reconnect.
type MissingPermissionError struct {
	TokenType string
}

func (e *MissingPermissionError) Error() string {
	if e.TokenType == models.TokenTypeCommunity {
		return "no valid community management permission; reconnect your organization access"
	}
	return "no valid posting permission; reconnect your LinkedIn account"
}

type PublishService interface {
	Publish(ctx context.Context, userID, postID int64, publishTarget string) (*transfer.PublishResult, error)
}

type publishService struct {
	pr repository.PostRepository
	ar repository.PostAttachmentRepository
	pp repository.PublishedPostRepository
	or repository.OrganizationRepository
	ts TokenService
	li LinkedinService
	st *StorageService
}

func NewPublishService(
	pr repository.PostRepository,
	ar repository.PostAttachmentRepository,
	pp repository.PublishedPostRepository,
	or repository.OrganizationRepository,
	ts TokenService,
	li LinkedinService,
	st *StorageService) PublishService {
	return &publishService{
		pr: pr,
		ar: ar,
		pp: pp,
		or: or,
		ts: ts,
		li: li,
		st: st,
	}
}

// ResolveAuthor maps a publish target onto the token type and author URN to
// use. Personal targets resolve to an empty author URN so the provider
// attributes the post to the token owner; organization targets must be
// numeric id strings.
func ResolveAuthor(publishTarget string) (tokenType, authorURN, organizationID string, err error) {
	if publishTarget == models.PublishTargetPersonal {
		return models.TokenTypePersonal, "", "", nil
	}
	if !IsNumericID(publishTarget) {
		return "", "", "", ErrInvalidPublishTarget
	}
	return models.TokenTypeCommunity, OrganizationURN(publishTarget), publishTarget, nil
}

func (s *publishService) Publish(ctx context.Context, userID, postID int64, publishTarget string) (*transfer.PublishResult, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.UserID != userID {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	if publishTarget == "" {
		publishTarget = post.PublishTarget
	}

	tokenType, authorURN, organizationID, err := ResolveAuthor(publishTarget)
	if err != nil {
		return nil, err
	}

	// Ownership is re-checked on every attempt, before token resolution:
	// the target may be a per-request override, and the user's organization
	// list can shrink after the draft was created.
	if organizationID != "" {
		owned, err := s.or.CheckOwnership(ctx, userID, organizationID)
		if err != nil {
			return nil, err
		}
		if !owned {
			slog.Info(fmt.Sprintf("user %d attempted to publish to unowned organization %s", userID, organizationID))
			return nil, ErrUnownedOrganization
		}
	}

	token, err := s.ts.GetToken(ctx, userID, tokenType)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, &MissingPermissionError{TokenType: tokenType}
	}

	media, mediaCategory, err := s.uploadAttachments(ctx, post, token.AccessToken, authorURN)
	if err != nil {
		s.recordAttempt(ctx, post, userID, "", organizationID, models.PostStatusFailed, err.Error())
		return nil, err
	}

	linkedinPostID, err := s.li.CreatePost(ctx, token.AccessToken, authorURN, post.Content, media, mediaCategory)
	if err != nil {
		s.recordAttempt(ctx, post, userID, "", organizationID, models.PostStatusFailed, err.Error())
		return nil, err
	}

	s.recordAttempt(ctx, post, userID, linkedinPostID, organizationID, models.PostStatusPublished, "")

	// The LinkedIn post already exists at this point; a failed local update
	// is logged but cannot be rolled back.
	if err := s.pr.MarkPublished(ctx, postID, publishTarget, time.Now()); err != nil {
		slog.Info(fmt.Sprintf("post %d published as %s but draft update failed: %v", postID, linkedinPostID, err))
	}

	return &transfer.PublishResult{LinkedinPostID: linkedinPostID}, nil
}

// uploadAttachments pushes the draft's attachments to LinkedIn. A failed
// image or document upload degrades the post rather than failing it; a
// failed video upload aborts, since for a video post the video is the
// content.
func (s *publishService) uploadAttachments(ctx context.Context, post *models.Post, accessToken, authorURN string) ([]transfer.UgcMedia, string, error) {
	attachments, err := s.ar.ListByPostID(ctx, post.ID)
	if err != nil {
		return nil, "", err
	}

	var media []transfer.UgcMedia
	mediaCategory := "NONE"

	for _, attachment := range attachments {
		data, err := s.st.Download(ctx, attachment.StorageKey)
		if err == nil {
			var assetURN string
			assetURN, err = s.li.UploadAsset(ctx, accessToken, authorURN, attachment.Kind, data)
			if err == nil {
				media = append(media, transfer.UgcMedia{
					Status: "READY",
					Media:  assetURN,
					Title:  transfer.UgcText{Text: attachment.FileName},
				})
				switch attachment.Kind {
				case models.AttachmentKindVideo:
					mediaCategory = "VIDEO"
				case models.AttachmentKindImage:
					if mediaCategory == "NONE" {
						mediaCategory = "IMAGE"
					}
				case models.AttachmentKindDocument:
					if mediaCategory == "NONE" {
						mediaCategory = "RICH"
					}
				}
				continue
			}
		}

		if attachment.Kind == models.AttachmentKindVideo {
			slog.Info(fmt.Sprintf("video upload for post %d failed: %v", post.ID, err))
			return nil, "", fmt.Errorf("video upload failed, post was not published: %w", err)
		}
		slog.Warn(fmt.Sprintf("skipping %s attachment %q on post %d: %v", attachment.Kind, attachment.FileName, post.ID, err))
	}

	return media, mediaCategory, nil
}

// recordAttempt writes the publish-attempt log row. Exactly one row per
// attempt, success or failure; logging failures here never fails a publish
// that already happened upstream.
func (s *publishService) recordAttempt(ctx context.Context, post *models.Post, userID int64, linkedinPostID, organizationID, status, errorMessage string) {
	attempt := models.PublishedPost{
		PostID:         post.ID,
		UserID:         userID,
		LinkedinPostID: linkedinPostID,
		OrganizationID: organizationID,
		Status:         status,
		Content:        post.Content,
		ErrorMessage:   errorMessage,
		PublishedAt:    time.Now(),
	}
	if _, err := s.pp.Create(ctx, &attempt); err != nil {
		slog.Info(fmt.Sprintf("failed to record publish attempt for post %d: %v", post.ID, err))
	}
}
