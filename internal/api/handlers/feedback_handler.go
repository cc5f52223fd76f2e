package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/linkedbud/linkedbud/internal/service"
)

type FeedbackHandler struct {
	s service.FeedbackService
}

func NewFeedbackHandler(service service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{s: service}
}

func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	userID := GetUserID(c)

	message := c.FormValue("message")
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	var screenshot *multipart.FileHeader
	if file, err := c.FormFile("screenshot"); err == nil {
		screenshot = file
	}

	feedbackID, err := h.s.Submit(c.Context(), userID, message, screenshot)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to submit feedback",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": feedbackID,
	})
}
