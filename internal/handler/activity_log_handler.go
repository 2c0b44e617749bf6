package handler

import (
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ActivityLogHandler struct {
	service service.ActivityLogService
}

func NewActivityLogHandler(s service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{service: s}
}

// GET /api/activity-logs
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	var q service.ActivityLogQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}
	page, err := h.service.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GET /api/activity-logs/stats?days=7 (at most 90)
func (h *ActivityLogHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.QueryInt("days", 7))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GET /api/activity-logs/recent?limit=10
func (h *ActivityLogHandler) Recent(c *fiber.Ctx) error {
	logs, err := h.service.Recent(c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
