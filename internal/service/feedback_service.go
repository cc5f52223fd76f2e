package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/h2non/filetype"
	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const resendEmailsURL = "https://api.resend.com/emails"

type FeedbackService interface {
	Submit(ctx context.Context, userID int64, message string, screenshot *multipart.FileHeader) (string, error)
}

type feedbackService struct {
	cfg config.Config
	fr  repository.FeedbackRepository
	st  *StorageService
}

func NewFeedbackService(cfg config.Config, fr repository.FeedbackRepository, st *StorageService) FeedbackService {
	return &feedbackService{
		cfg: cfg,
		fr:  fr,
		st:  st,
	}
}

// Submit stores the feedback row and, when present, its screenshot. The
// notification email is fire-and-forget: a mail failure never fails the
// submission.
func (s *feedbackService) Submit(ctx context.Context, userID int64, message string, screenshot *multipart.FileHeader) (string, error) {
	if message == "" {
		err := errors.New("feedback message cannot be empty")
		slog.Info(err.Error())
		return "", err
	}

	feedbackID, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("Error submitting feedback")
	}

	var screenshotKey string
	if screenshot != nil {
		screenshotKey, err = s.uploadScreenshot(ctx, userID, feedbackID, screenshot)
		if err != nil {
			return "", err
		}
	}

	feedback := models.Feedback{
		FeedbackID:    feedbackID,
		UserID:        userID,
		Message:       message,
		ScreenshotKey: screenshotKey,
	}
	if _, err := s.fr.Create(ctx, &feedback); err != nil {
		return "", fmt.Errorf("Error submitting feedback")
	}

	go s.notify(userID, feedbackID, message)

	return feedbackID, nil
}

func (s *feedbackService) uploadScreenshot(ctx context.Context, userID int64, feedbackID string, screenshot *multipart.FileHeader) (string, error) {
	fileContent, err := screenshot.Open()
	if err != nil {
		return "", fmt.Errorf("error opening screenshot: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("error reading screenshot: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || !filetype.IsImage(fileBytes) {
		return "", errors.New("screenshot must be an image")
	}

	key := ScreenshotKey(userID, feedbackID, fileType.Extension, time.Now())
	if err := s.st.Upload(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return "", fmt.Errorf("error uploading screenshot: %w", err)
	}

	return key, nil
}

// notify sends the internal notification mail through Resend. Best-effort.
func (s *feedbackService) notify(userID int64, feedbackID, message string) {
	if s.cfg.ResendAPIKey == "" || s.cfg.FeedbackEmail == "" {
		return
	}

	payload := map[string]interface{}{
		"from":    "linkedbud <noreply@linkedbud.com>",
		"to":      []string{s.cfg.FeedbackEmail},
		"subject": fmt.Sprintf("New feedback %s from user %d", feedbackID, userID),
		"text":    message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	req, err := http.NewRequest("POST", resendEmailsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(fmt.Sprintf("feedback notification failed: %v", err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Info(fmt.Sprintf("feedback notification returned %d", resp.StatusCode))
	}
}
