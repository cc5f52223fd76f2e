package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/linkedbud/linkedbud/internal/service"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

func (h *AnalyticsHandler) GetAnalytics(c *fiber.Ctx) error {
	userID := GetUserID(c)

	q := transfer.AnalyticsQuery{
		Period:        c.Query("period", "30d"),
		Context:       c.Query("context", "all"),
		SortColumn:    c.Query("sort", "impressions"),
		SortDirection: c.Query("direction", "desc"),
	}

	if q.Period == "custom" {
		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start must be a YYYY-MM-DD date",
			})
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "end must be a YYYY-MM-DD date",
			})
		}
		q.CustomStart = start
		q.CustomEnd = end
	}

	result, err := h.s.Aggregate(c.Context(), userID, q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAnalyticsPeriod) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to compute analytics",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
