package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/linkedbud/linkedbud/internal/service"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(service service.PublishService) *PublishHandler {
	return &PublishHandler{s: service}
}

// PublishNow runs a single publish attempt for a draft. Target defaults to
// the one stored on the draft; passing one overrides it for this attempt.
func (h *PublishHandler) PublishNow(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)
	target := c.Query("target")

	if postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post id is required",
		})
	}

	result, err := h.s.Publish(c.Context(), userID, int64(postID), target)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPublishTarget) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid publish target",
			})
		}
		if errors.Is(err, service.ErrUnownedOrganization) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		var missing *service.MissingPermissionError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "LinkedIn account is not connected for this target",
				"missing": missing.TokenType,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to publish post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
