package auth

import (
	"github.com/gofiber/fiber/v2"

	"resolvex/internal/features/audit"
	"resolvex/internal/middleware"
)

type Api struct {
	controller *Controller
	recorder   middleware.AuditRecorder
}

func NewApi(controller *Controller, recorder middleware.AuditRecorder) *Api {
	return &Api{controller: controller, recorder: recorder}
}

// Setup wires the auth surface. These routes use the wrapper-mode audit
// middleware because the auth service itself writes no audit entries.
func (h *Api) Setup(app *fiber.App) {
	app.Post("/api/users/signup",
		middleware.AuditLog(h.recorder, string(audit.ActionUserSignup), "auth", string(audit.SeverityMedium), "User"),
		h.controller.Signup)
	app.Post("/api/users/login",
		middleware.AuditLog(h.recorder, string(audit.ActionUserLogin), "auth", string(audit.SeverityLow), "User"),
		h.controller.UserLogin)
	app.Post("/api/users/refresh-token",
		middleware.AuditLog(h.recorder, string(audit.ActionTokenRefresh), "auth", string(audit.SeverityLow), "User"),
		h.controller.RefreshToken)

	app.Post("/api/staff/register",
		middleware.AuditLog(h.recorder, string(audit.ActionStaffRegister), "auth", string(audit.SeverityMedium), "Staff"),
		h.controller.RegisterStaff)
	app.Post("/api/staff/login",
		middleware.AuditLog(h.recorder, string(audit.ActionStaffLogin), "auth", string(audit.SeverityLow), "Staff"),
		h.controller.StaffLogin)

	app.Post("/api/admin/login",
		middleware.AuditLog(h.recorder, string(audit.ActionAdminLogin), "auth", string(audit.SeverityMedium), "Admin"),
		h.controller.AdminLogin)

	app.Post("/api/auth/request-otp", h.controller.RequestOTP)
	app.Post("/api/auth/verify-otp",
		middleware.AuditLog(h.recorder, string(audit.ActionUserLogin), "auth", string(audit.SeverityLow), "User"),
		h.controller.VerifyOTP)
}
