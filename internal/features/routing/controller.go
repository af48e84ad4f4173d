package routing

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

func statusFor(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

// CreateRule godoc
func (ctrl *Controller) CreateRule(c *fiber.Ctx) error {
	var rule Rule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	rule.IsActive = true

	if err := ctrl.Service.Create(c.UserContext(), &rule); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Routing rule created successfully",
		"data":    rule,
	})
}

// GetRule godoc
func (ctrl *Controller) GetRule(c *fiber.Ctx) error {
	rule, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(rule)
}

// ListRules godoc
func (ctrl *Controller) ListRules(c *fiber.Ctx) error {
	rules, err := ctrl.Service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if rules == nil {
		rules = []Rule{}
	}
	return c.JSON(fiber.Map{"data": rules})
}

// UpdateRule godoc
func (ctrl *Controller) UpdateRule(c *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Update(c.UserContext(), c.Params("id"), updates); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Routing rule updated successfully"})
}

// DeleteRule godoc
func (ctrl *Controller) DeleteRule(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Routing rule deleted successfully"})
}
