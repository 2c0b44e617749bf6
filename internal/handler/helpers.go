package handler

import (
	"errors"

	"agritrack-api/internal/middleware"
	"agritrack-api/internal/model"
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFrom builds the service principal from the locals set by RequireAuth.
func actorFrom(c *fiber.Ctx) service.Actor {
	actor := service.Actor{IP: c.IP()}
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	if email, ok := c.Locals(middleware.LocalUserEmail).(string); ok {
		actor.Email = email
	}
	if role, ok := c.Locals(middleware.LocalUserRole).(string); ok {
		actor.Role = model.Role(role)
	}
	return actor
}

func parseID(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+what+" ID")
	}
	return id, nil
}

// respondError maps service errors to statuses. Anything unrecognised goes
// to the app ErrorHandler as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var validation *service.ValidationError
	var notFound *service.NotFoundError
	switch {
	case errors.As(err, &validation):
		return c.Status(400).JSON(fiber.Map{"error": validation.Message})
	case errors.As(err, &notFound):
		return c.Status(404).JSON(fiber.Map{"error": notFound.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	default:
		return err
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
}
