package user

import (
	"strconv"

	common_models "resolvex/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// GetProfile godoc
func (ctrl *Controller) GetProfile(c *fiber.Ctx) error {
	actor, ok := c.Locals(common_models.ActorKey).(*common_models.Actor)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	user, err := ctrl.Service.Get(c.UserContext(), actor.Ref.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(user)
}

// UpdateProfile godoc
func (ctrl *Controller) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := c.Locals(common_models.ActorKey).(*common_models.Actor)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateProfile(c.UserContext(), actor.Ref.ID, updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

// ListUsers godoc
func (ctrl *Controller) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	var verified *bool
	if v := c.Query("verified"); v != "" {
		b := v == "true"
		verified = &b
	}

	users, total, err := ctrl.Service.List(c.UserContext(), c.Query("search"), verified, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if users == nil {
		users = []User{}
	}

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeleteUser godoc
func (ctrl *Controller) DeleteUser(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
