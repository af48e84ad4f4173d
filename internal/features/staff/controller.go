package staff

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// GetStaff godoc
func (ctrl *Controller) GetStaff(c *fiber.Ctx) error {
	member, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(member)
}

// ListStaff godoc
func (ctrl *Controller) ListStaff(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	activeOnly := c.Query("active") == "true"

	members, total, err := ctrl.Service.List(c.UserContext(), c.Query("search"), c.Query("department"), activeOnly, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if members == nil {
		members = []Staff{}
	}

	return c.JSON(fiber.Map{
		"data": members,
		"meta": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// UpdateStaff godoc
func (ctrl *Controller) UpdateStaff(c *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Update(c.UserContext(), c.Params("id"), updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Staff member updated successfully"})
}

// DeleteStaff godoc
func (ctrl *Controller) DeleteStaff(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Staff member deleted successfully"})
}

// GetStaffStats godoc
func (ctrl *Controller) GetStaffStats(c *fiber.Ctx) error {
	stats, err := ctrl.Service.GetStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(stats)
}
