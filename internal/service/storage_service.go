package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/linkedbud/linkedbud/configs"
)

// StorageService is the single-bucket object store for post attachments and
// feedback screenshots, backed by Cloudflare R2 through the S3 API.
type StorageService struct {
	config cfg.Config
}

func NewStorageService(cfg cfg.Config) *StorageService {
	return &StorageService{config: cfg}
}

func (r *StorageService) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

func (r *StorageService) Upload(ctx context.Context, key string, file []byte, contentType string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	_, err = client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *StorageService) Download(ctx context.Context, key string) ([]byte, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.config.R2.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return data, nil
}

func (r *StorageService) PresignURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	request, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.config.R2.BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return request.URL, nil
}

func (r *StorageService) Delete(ctx context.Context, key string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.config.R2.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// SanitizeFilename strips path separators and whitespace from a
// user-supplied filename before it becomes part of an object key.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	name = replacer.Replace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		name = "file"
	}
	return name
}

// AttachmentKey builds the bucket path for a post attachment:
// posts/<user>/<post>/<images|docs|videos>/<filename>.
func AttachmentKey(userID, postID int64, kind, filename string) string {
	folder := "images"
	switch kind {
	case "document":
		folder = "docs"
	case "video":
		folder = "videos"
	}
	return fmt.Sprintf("posts/%d/%d/%s/%s", userID, postID, folder, SanitizeFilename(filename))
}

// ScreenshotKey builds the bucket path for a feedback screenshot:
// feedback/<user>/<feedbackId>/screenshot_<timestamp>.<ext>.
func ScreenshotKey(userID int64, feedbackID, ext string, now time.Time) string {
	return fmt.Sprintf("feedback/%d/%s/screenshot_%d.%s", userID, feedbackID, now.Unix(), ext)
}
