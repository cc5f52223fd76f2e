package handlers

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/service"
	"github.com/linkedbud/linkedbud/pkg/utils"
)

type LinkedinHandler struct {
	ts  service.TokenService
	li  service.LinkedinService
	cfg config.Config
}

func NewLinkedinHandler(ts service.TokenService, li service.LinkedinService, cfg config.Config) *LinkedinHandler {
	return &LinkedinHandler{
		ts:  ts,
		li:  li,
		cfg: cfg,
	}
}

func tokenTypeParam(c *fiber.Ctx) (string, bool) {
	tokenType := c.Params("type")
	if tokenType != models.TokenTypePersonal && tokenType != models.TokenTypeCommunity {
		return "", false
	}
	return tokenType, true
}

// Connect redirects into the authorization flow for one of the two LinkedIn
// apps. The state parameter carries the caller's session token so the
// callback can attribute the credential.
func (h *LinkedinHandler) Connect(c *fiber.Ctx) error {
	tokenType, ok := tokenTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "connection type must be personal or community",
		})
	}

	authURL := h.li.GetAuthURL(tokenType, c.Query("state"))
	return c.Redirect(authURL)
}

func (h *LinkedinHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	tokenType, ok := tokenTypeParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "connection type must be personal or community",
		})
	}

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	if err := h.ts.HandleCallback(c.Context(), userID, tokenType, code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

// Status reports which permissions are connected. A token that exists but
// can no longer be refreshed counts as disconnected.
func (h *LinkedinHandler) Status(c *fiber.Ctx) error {
	userID := GetUserID(c)

	status := fiber.Map{}
	for _, tokenType := range []string{models.TokenTypePersonal, models.TokenTypeCommunity} {
		token, err := h.ts.GetToken(c.Context(), userID, tokenType)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch connection status",
			})
		}
		status[tokenType] = token != nil
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *LinkedinHandler) ListOrganizations(c *fiber.Ctx) error {
	userID := GetUserID(c)

	orgs, err := h.ts.ListOrganizations(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch organizations",
		})
	}

	return c.Status(fiber.StatusOK).JSON(orgs)
}

func (h *LinkedinHandler) Disconnect(c *fiber.Ctx) error {
	userID := GetUserID(c)

	tokenType := c.Query("type")
	if tokenType != models.TokenTypePersonal && tokenType != models.TokenTypeCommunity {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "connection type must be personal or community",
		})
	}

	if err := h.ts.Revoke(c.Context(), userID, tokenType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to disconnect account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
