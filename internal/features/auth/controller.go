package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"resolvex/internal/config"
	"resolvex/internal/features/otp"
)

const refreshCookie = "refresh_token"

type Controller struct {
	Service Service
	OTP     otp.Service
	Config  *config.Config
}

func NewController(service Service, otpService otp.Service, cfg *config.Config) *Controller {
	return &Controller{Service: service, OTP: otpService, Config: cfg}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrInactive):
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}

// setRefreshCookie stores the refresh token where scripts cannot read it.
func (ctrl *Controller) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/api",
		Expires:  time.Now().Add(ctrl.Config.RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   ctrl.Config.Environment == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (ctrl *Controller) respondSession(c *fiber.Ctx, session *Session, status int) error {
	ctrl.setRefreshCookie(c, session.RefreshToken)
	return c.Status(status).JSON(fiber.Map{
		"message": "Authentication successful",
		"data":    session,
	})
}

// Signup godoc
func (ctrl *Controller) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := ctrl.Service.Signup(c.UserContext(), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctrl.respondSession(c, session, fiber.StatusCreated)
}

// RegisterStaff godoc
func (ctrl *Controller) RegisterStaff(c *fiber.Ctx) error {
	var req StaffRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := ctrl.Service.RegisterStaff(c.UserContext(), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctrl.respondSession(c, session, fiber.StatusCreated)
}

func (ctrl *Controller) login(c *fiber.Ctx, fn func(ctx *fiber.Ctx, email, password string) (*Session, error)) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := fn(c, req.Email, req.Password)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctrl.respondSession(c, session, fiber.StatusOK)
}

// UserLogin godoc
func (ctrl *Controller) UserLogin(c *fiber.Ctx) error {
	return ctrl.login(c, func(c *fiber.Ctx, email, password string) (*Session, error) {
		return ctrl.Service.LoginUser(c.UserContext(), email, password)
	})
}

// StaffLogin godoc
func (ctrl *Controller) StaffLogin(c *fiber.Ctx) error {
	return ctrl.login(c, func(c *fiber.Ctx, email, password string) (*Session, error) {
		return ctrl.Service.LoginStaff(c.UserContext(), email, password)
	})
}

// AdminLogin godoc
func (ctrl *Controller) AdminLogin(c *fiber.Ctx) error {
	return ctrl.login(c, func(c *fiber.Ctx, email, password string) (*Session, error) {
		return ctrl.Service.LoginAdmin(c.UserContext(), email, password)
	})
}

// RefreshToken godoc
func (ctrl *Controller) RefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Refresh token missing",
		})
	}

	session, err := ctrl.Service.Refresh(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctrl.respondSession(c, session, fiber.StatusOK)
}

// RequestOTP godoc
func (ctrl *Controller) RequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.OTP.Request(c.UserContext(), req.Email, otp.Purpose(req.Purpose)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

// VerifyOTP handles the OTP login variant. Signup codes are consumed by the
// signup endpoint itself, never here.
func (ctrl *Controller) VerifyOTP(c *fiber.Ctx) error {
	var req OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if otp.Purpose(req.Purpose) != otp.PurposeLogin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Codes for this purpose are verified on submission",
		})
	}

	session, err := ctrl.Service.LoginWithOTP(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctrl.respondSession(c, session, fiber.StatusOK)
}
