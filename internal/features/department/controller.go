package department

import (
	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// CreateDepartment godoc
func (ctrl *Controller) CreateDepartment(c *fiber.Ctx) error {
	var dept Department
	if err := c.BodyParser(&dept); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.UserContext(), &dept); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Department created successfully",
		"data":    dept,
	})
}

// ListDepartments godoc
func (ctrl *Controller) ListDepartments(c *fiber.Ctx) error {
	onlyActive := c.Query("active", "true") == "true"

	depts, err := ctrl.Service.List(c.UserContext(), onlyActive)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if depts == nil {
		depts = []Department{}
	}

	return c.JSON(fiber.Map{"data": depts})
}

// GetDepartment godoc
func (ctrl *Controller) GetDepartment(c *fiber.Ctx) error {
	dept, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(dept)
}

// UpdateDepartment godoc
func (ctrl *Controller) UpdateDepartment(c *fiber.Ctx) error {
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

	return c.JSON(fiber.Map{"message": "Department updated successfully"})
}

// DeleteDepartment godoc
func (ctrl *Controller) DeleteDepartment(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Department deleted successfully"})
}
