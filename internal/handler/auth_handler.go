package handler

import (
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and logs it in.
// POST /api/users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Register(&req, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(resp)
}

// Login handles user authentication
// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Login(&req, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Verify reports whether the caller's token is still good.
// GET /api/users/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	user, err := h.authService.Verify(actorFrom(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"valid": true, "user": user})
}
