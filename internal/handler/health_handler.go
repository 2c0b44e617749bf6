package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health answers {status: "OK"} when the database is reachable.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":    "ERROR",
				"error":     "database unreachable",
				"timestamp": time.Now(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now()})
}
