package routing

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
	admin := app.Group("/api/admin/routing-rules", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Post("/", h.controller.CreateRule)
	admin.Get("/", h.controller.ListRules)
	admin.Get("/:id", h.controller.GetRule)
	admin.Put("/:id", h.controller.UpdateRule)
	admin.Delete("/:id", h.controller.DeleteRule)
}
