package middleware

import (
	"errors"

	"agritrack-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler answers errors that escaped the handlers. Unexpected errors
// are logged and, in production, hidden behind a generic message.
func ErrorHandler(isProduction bool, log logger.ZapLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= 500 {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		message := err.Error()
		if code >= 500 && isProduction {
			message = "Something went wrong!"
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(404).JSON(fiber.Map{"error": "Route not found"})
}
