package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/service"
)

type UserHandler struct {
	s   service.UserService
	cfg config.Config
}

func NewUserHandler(cfg config.Config, service service.UserService) *UserHandler {
	return &UserHandler{s: service, cfg: cfg}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)

	userInfo, err := h.s.GetUserInfo(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(userInfo)
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	userId := GetUserID(c)

	if err := h.s.RemoveUser(c.Context(), userId); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove account",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:    h.cfg.CookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
	})

	return c.SendStatus(fiber.StatusOK)
}
