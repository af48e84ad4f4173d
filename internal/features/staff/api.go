package staff

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
	admin := app.Group("/api/admin/staff", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Get("/", h.controller.ListStaff)
	admin.Get("/:id", h.controller.GetStaff)
	admin.Get("/:id/stats", h.controller.GetStaffStats)
	admin.Put("/:id", h.controller.UpdateStaff)
	admin.Delete("/:id", h.controller.DeleteStaff)
}
