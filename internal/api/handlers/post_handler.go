package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/linkedbud/linkedbud/internal/queue"
	"github.com/linkedbud/linkedbud/internal/service"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	AsynqClient *asynq.Client
}

func NewPostHandler(service service.PostService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: service, AsynqClient: asynqClient}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	content := c.FormValue("content")
	publishTarget := c.FormValue("publish_target")
	scheduledTime := c.FormValue("scheduled_time")

	files := form.File["files"]

	postID, delay, scheduled, err := h.s.CreatePost(c.Context(), userID, &transfer.PostCreation{
		Content:       content,
		PublishTarget: publishTarget,
		ScheduledTime: scheduledTime},
		files)

	if err != nil {
		if errors.Is(err, service.ErrInvalidPublishTarget) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid publish target",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if scheduled {
		err = queue.EnqueuePublish(h.AsynqClient, queue.PublishPostPayload{PostID: postID, UserID: userID}, delay)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error scheduling post",
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"id":      postID,
			"message": "Post scheduled successfully",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":      postID,
		"message": "Draft saved",
	})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	if postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post id is required",
		})
	}

	delay, scheduled, err := h.s.UpdateDraft(c.Context(), userID, int64(postID), &transfer.PostCreation{
		Content:       c.FormValue("content"),
		PublishTarget: c.FormValue("publish_target"),
		ScheduledTime: c.FormValue("scheduled_time"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPublishTarget) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid publish target",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if scheduled {
		err = queue.EnqueuePublish(h.AsynqClient, queue.PublishPostPayload{PostID: int64(postID), UserID: userID}, delay)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error scheduling post",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userId := GetUserID(c)
	postId := c.QueryInt("id", 0)

	if postId != 0 {
		post, err := h.s.PostInfo(c.Context(), int64(postId), userId)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to list posts",
			})
		}

		return c.Status(fiber.StatusOK).JSON(post)

	}

	posts, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) ListAttachments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postId := c.QueryInt("id", 0)

	attachments, err := h.s.Attachments(c.Context(), int64(postId), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list attachments",
		})
	}

	return c.Status(fiber.StatusOK).JSON(attachments)
}

func (h *PostHandler) AttachmentURL(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)
	kind := c.Query("kind")

	url, err := h.s.AttachmentURL(c.Context(), userID, int64(postID), kind)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get attachment url",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": url,
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postId := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(postId))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
