package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	common_models "resolvex/internal/common/models"
	"resolvex/pkg/utils"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/me", AuthMiddleware(), func(c *fiber.Ctx) error {
		actor := c.Locals(common_models.ActorKey).(*common_models.Actor)
		return c.JSON(fiber.Map{"id": actor.Ref.ID, "role": actor.Role})
	})
	app.Get("/api/admin/only", AuthMiddleware(), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")
	app := protectedApp()

	access, refresh, err := utils.GenerateTokenPair("u1", "User", "user", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Missing Header", "", fiber.StatusUnauthorized},
		{"Not Bearer", "Basic abc", fiber.StatusUnauthorized},
		{"Garbage Token", "Bearer nope", fiber.StatusUnauthorized},
		{"Refresh As Access", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"Valid", "Bearer " + access, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	utils.SetSecret("test-secret")
	app := protectedApp()

	userTok, _, err := utils.GenerateTokenPair("u1", "User", "user", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	adminTok, _, err := utils.GenerateTokenPair("a1", "Admin", "admin", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/admin/only", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("user on admin route: status = %d, want 403", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/admin/only", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", resp.StatusCode)
	}
}
