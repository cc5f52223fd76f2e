package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/linkedbud/linkedbud/internal/service"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

type BillingHandler struct {
	s service.BillingService
	u service.UserService
}

func NewBillingHandler(billing service.BillingService, user service.UserService) *BillingHandler {
	return &BillingHandler{s: billing, u: user}
}

func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.u.GetUserInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create checkout",
		})
	}

	checkoutURL, err := h.s.CreateCheckout(c.Context(), userID, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create checkout",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"checkout_url": checkoutURL,
	})
}

func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.CancelSubscription(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// BillingWebhook receives subscription lifecycle events. The signature is
// checked against the raw body before anything is parsed.
func (h *BillingHandler) BillingWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if !h.s.VerifySignature(body, c.Get("X-Signature")) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var event transfer.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Info(err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := h.s.HandleWebhook(c.Context(), &event); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
