package user

import (
	"resolvex/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Api struct {
	controller *Controller
}

func NewApi(controller *Controller) *Api {
	return &Api{controller: controller}
}

func (h *Api) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware())
	users.Get("/me", h.controller.GetProfile)
	users.Put("/me", h.controller.UpdateProfile)

	admin := app.Group("/api/admin/users", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Get("/", h.controller.ListUsers)
	admin.Delete("/:id", h.controller.DeleteUser)
}
