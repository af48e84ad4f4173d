package analytics

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
	admin := app.Group("/api/admin/analytics", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Get("/", h.controller.GetSummary)
	admin.Get("/export", h.controller.ExportAnalytics)
}
