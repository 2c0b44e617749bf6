package middleware_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"agritrack-api/internal/middleware"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/testutil"
	"agritrack-api/pkg/jwt"
	"agritrack-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newApp(t *testing.T) (*fiber.App, *jwt.Manager, *model.User, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "Plain User", "user@x.com", model.RoleUser)
	admin := testutil.CreateUser(t, db, "Admin", "admin@x.com", model.RoleAdmin)
	tokens := jwt.NewManager("test-secret", time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(true, logger.NewNop())})
	auth := middleware.RequireAuth(tokens, repository.NewUserRepo(db))
	app.Get("/me", auth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":   c.Locals(middleware.LocalUserID),
			"role": c.Locals(middleware.LocalUserRole),
		})
	})
	app.Get("/admin", auth, middleware.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrBadGateway
	})
	app.Use(middleware.NotFound)
	return app, tokens, user, admin
}

func call(t *testing.T, app *fiber.App, path, authHeader string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body := map[string]interface{}{}
	json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequireAuth(t *testing.T) {
	app, tokens, user, _ := newApp(t)
	valid, _ := tokens.GenerateToken(user.ID, user.Email, "admin")
	ghost, _ := tokens.GenerateToken(uuid.New(), "ghost@x.com", "user")

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", 401, "No token, authorization denied"},
		{"wrong scheme", "Basic abc", 401, "Invalid authorization format. Use: Bearer <token>"},
		{"bad token", "Bearer nope", 401, "Token is not valid"},
		{"deleted user", "Bearer " + ghost, 401, "User not found"},
		{"valid", "Bearer " + valid, 200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, "/me", tt.header)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%v)", status, tt.status, body)
			}
			if tt.message != "" && body["error"] != tt.message {
				t.Errorf("error = %v, want %q", body["error"], tt.message)
			}
		})
	}

	// the role claim in the token is ignored in favour of the stored role
	_, body := call(t, app, "/me", "Bearer "+valid)
	if body["role"] != "user" || body["id"] != user.ID.String() {
		t.Errorf("locals = %v", body)
	}
}

func TestRequireRole(t *testing.T) {
	app, tokens, user, admin := newApp(t)
	userToken, _ := tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	adminToken, _ := tokens.GenerateToken(admin.ID, admin.Email, string(admin.Role))

	if status, _ := call(t, app, "/admin", "Bearer "+userToken); status != 403 {
		t.Errorf("user = %d, want 403", status)
	}
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	if err != nil || resp.StatusCode != 200 {
		t.Errorf("admin = %v %v", resp.StatusCode, err)
	}
}

func TestErrorHandlerAndNotFound(t *testing.T) {
	app, _, _, _ := newApp(t)

	status, body := call(t, app, "/boom", "")
	if status != 502 || body["error"] != "Something went wrong!" {
		t.Errorf("boom = %d %v", status, body)
	}
	status, body = call(t, app, "/missing", "")
	if status != 404 || body["error"] != "Route not found" {
		t.Errorf("missing = %d %v", status, body)
	}
}
