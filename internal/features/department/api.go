package department

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
	// Read access for any authenticated principal
	app.Get("/api/departments", middleware.AuthMiddleware(), h.controller.ListDepartments)
	app.Get("/api/departments/:id", middleware.AuthMiddleware(), h.controller.GetDepartment)

	admin := app.Group("/api/admin/departments", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Post("/", h.controller.CreateDepartment)
	admin.Put("/:id", h.controller.UpdateDepartment)
	admin.Delete("/:id", h.controller.DeleteDepartment)
}
