package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

const maxVideoSize = 100 * 1024 * 1024

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, bool, error)
	UpdateDraft(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) (time.Duration, bool, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	AttachmentURL(ctx context.Context, userID, postID int64, kind string) (string, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Attachments(ctx context.Context, postID, userID int64) ([]*models.PostAttachment, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	ar repository.PostAttachmentRepository
	or repository.OrganizationRepository
	st *StorageService
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	ar repository.PostAttachmentRepository,
	or repository.OrganizationRepository,
	st *StorageService) PostService {
	return &postService{
		db: db,
		pr: pr,
		ar: ar,
		or: or,
		st: st,
	}
}

// CreatePost saves a draft with its attachments. Organization ownership is
// checked here, at creation time; the publish path trusts this check.
// Returns the scheduling delay when the draft carries a scheduled time.
func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, bool, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, 0, false, err
	}
	if pc.Content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return 0, 0, false, err
	}

	publishTarget := pc.PublishTarget
	if publishTarget == "" {
		publishTarget = models.PublishTargetPersonal
	}
	if publishTarget != models.PublishTargetPersonal {
		if !IsNumericID(publishTarget) {
			slog.Info("invalid publish target: " + publishTarget)
			return 0, 0, false, ErrInvalidPublishTarget
		}
		owned, err := s.or.CheckOwnership(ctx, userID, publishTarget)
		if err != nil {
			return 0, 0, false, err
		}
		if !owned {
			err = ErrUnownedOrganization
			slog.Info(err.Error())
			return 0, 0, false, err
		}
	}

	var scheduledTime time.Time
	scheduled := false
	if pc.ScheduledTime != "" {
		var err error
		scheduledTime, err = time.Parse("2006-01-02T15:04", pc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return 0, 0, false, err
		}
		scheduled = true
	}

	status := models.PostStatusDraft
	if scheduled {
		status = models.PostStatusScheduled
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := models.Post{
		UserID:        userID,
		Content:       pc.Content,
		PublishTarget: publishTarget,
		ScheduledTime: scheduledTime,
		Status:        status,
	}

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, 0, false, fmt.Errorf("error creating post: %w", err)
	}

	if err = s.processFiles(ctx, tx, userID, postID, files); err != nil {
		return 0, 0, false, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}

	return postID, delay, scheduled, nil
}

// attachmentKind maps a sniffed file extension to the attachment slot it
// occupies. A draft holds at most one image, one document and one video.
func attachmentKind(extension string) (string, bool) {
	switch extension {
	case "jpg", "jpeg", "png", "gif":
		return models.AttachmentKindImage, true
	case "pdf":
		return models.AttachmentKindDocument, true
	case "mp4", "mov":
		return models.AttachmentKindVideo, true
	default:
		return "", false
	}
}

func (s *postService) processFiles(ctx context.Context, tx *sql.Tx, userID, postID int64, files []*multipart.FileHeader) error {
	seen := map[string]bool{}

	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return errors.New("unsupported file type")
		}

		kind, ok := attachmentKind(fileType.Extension)
		if !ok {
			return fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}
		if seen[kind] {
			return fmt.Errorf("only one %s attachment is allowed per post", kind)
		}
		seen[kind] = true

		if kind == models.AttachmentKindVideo && len(fileBytes) > maxVideoSize {
			return errors.New("Video file is too large. The maximum size is 100MB")
		}

		key := AttachmentKey(userID, postID, kind, file.Filename)
		if err := s.st.Upload(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
			return fmt.Errorf("error uploading file: %w", err)
		}

		attachment := models.PostAttachment{
			PostID:      postID,
			Kind:        kind,
			FileName:    SanitizeFilename(file.Filename),
			ContentType: fileType.MIME.Value,
			FileSize:    int64(len(fileBytes)),
			StorageKey:  key,
		}
		if _, err := s.ar.Create(ctx, tx, &attachment); err != nil {
			return fmt.Errorf("error saving attachment: %w", err)
		}
	}
	return nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}

	return post, nil
}

// UpdateDraft rewrites a draft's content, target and schedule. Only drafts
// and not-yet-run scheduled posts can change; published history is immutable.
// Returns the new scheduling delay when the updated draft carries a
// scheduled time, so the caller can re-enqueue.
func (s *postService) UpdateDraft(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) (time.Duration, bool, error) {
	if pc == nil || pc.Content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return 0, false, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	if post == nil || post.UserID != userID {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return 0, false, err
	}
	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusScheduled {
		err = errors.New("published posts cannot be edited")
		slog.Info(err.Error())
		return 0, false, err
	}

	publishTarget := pc.PublishTarget
	if publishTarget == "" {
		publishTarget = post.PublishTarget
	}
	if publishTarget != models.PublishTargetPersonal {
		if !IsNumericID(publishTarget) {
			slog.Info("invalid publish target: " + publishTarget)
			return 0, false, ErrInvalidPublishTarget
		}
		owned, err := s.or.CheckOwnership(ctx, userID, publishTarget)
		if err != nil {
			return 0, false, err
		}
		if !owned {
			err = ErrUnownedOrganization
			slog.Info(err.Error())
			return 0, false, err
		}
	}

	var scheduledTime time.Time
	scheduled := false
	if pc.ScheduledTime != "" {
		scheduledTime, err = time.Parse("2006-01-02T15:04", pc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return 0, false, err
		}
		scheduled = true
	}

	post.Content = pc.Content
	post.PublishTarget = publishTarget
	post.ScheduledTime = scheduledTime
	if scheduled {
		post.Status = models.PostStatusScheduled
	} else {
		post.Status = models.PostStatusDraft
	}

	if err := s.pr.UpdateContent(ctx, post); err != nil {
		return 0, false, fmt.Errorf("error updating post: %w", err)
	}

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}

	return delay, scheduled, nil
}

// AttachmentURL hands out a short-lived presigned download link for one of
// the draft's attachment slots.
func (s *postService) AttachmentURL(ctx context.Context, userID, postID int64, kind string) (string, error) {
	attachments, err := s.Attachments(ctx, postID, userID)
	if err != nil {
		return "", err
	}

	for _, a := range attachments {
		if a.Kind == kind {
			return s.st.PresignURL(ctx, a.StorageKey, 15*time.Minute)
		}
	}

	err = errors.New("no attachment of this kind")
	slog.Info(err.Error())
	return "", err
}

func (s *postService) Attachments(ctx context.Context, postID, userID int64) ([]*models.PostAttachment, error) {
	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return s.ar.ListByPostID(ctx, postID)
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	// Attachment objects are removed best-effort; an orphaned object in the
	// bucket is preferable to a draft the user cannot delete.
	attachments, err := s.ar.ListByPostID(ctx, postID)
	if err == nil {
		for _, attachment := range attachments {
			if err := s.st.Delete(ctx, attachment.StorageKey); err != nil {
				slog.Warn(fmt.Sprintf("failed to delete attachment object %s: %v", attachment.StorageKey, err))
			}
		}
	}

	if err := s.ar.RemoveByPostID(ctx, postID); err != nil {
		return fmt.Errorf("Error removing post attachments")
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}
