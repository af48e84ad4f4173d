package complaint

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
	issues := app.Group("/api/user_issues", middleware.AuthMiddleware())
	issues.Post("/", middleware.RequireRole("user"), h.controller.CreateComplaint)
	issues.Get("/", h.controller.ListComplaints)
	issues.Get("/my", middleware.RequireRole("user"), h.controller.ListMyComplaints)
	issues.Get("/:id", h.controller.GetComplaint)
	issues.Post("/:id/comments", h.controller.AddComment)
	issues.Put("/:id/vote", middleware.RequireRole("user"), h.controller.VoteComplaint)

	staff := app.Group("/api/staff/issues", middleware.AuthMiddleware(), middleware.RequireRole("staff", "admin"))
	staff.Get("/", h.controller.ListAssignedComplaints)
	staff.Put("/:id", h.controller.UpdateComplaint)

	admin := app.Group("/api/admin/issues", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Get("/", h.controller.ListComplaints)
	admin.Put("/:id", h.controller.UpdateComplaint)
	admin.Post("/bulk-assign", h.controller.BulkAssign)
	admin.Delete("/:id", h.controller.DeleteComplaint)
}
