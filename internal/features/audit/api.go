package audit

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
	audit := app.Group("/api/audit", middleware.AuthMiddleware(), middleware.RequireRole("admin"))

	audit.Get("/logs", h.controller.ListLogs)
	audit.Get("/summary", h.controller.GetSummary)
	audit.Get("/trail/:targetModel/:targetId", h.controller.GetTrail)
	audit.Get("/export", h.controller.ExportLogs)
}
