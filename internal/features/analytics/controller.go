package analytics

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// GetSummary godoc
func (ctrl *Controller) GetSummary(c *fiber.Ctx) error {
	summary, err := ctrl.Service.Summarize(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// ExportAnalytics godoc
func (ctrl *Controller) ExportAnalytics(c *fiber.Ctx) error {
	format := c.Query("format", "csv")

	data, contentType, err := ctrl.Service.Export(c.UserContext(), format)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filename := fmt.Sprintf("analytics_%s.%s", time.Now().Format("20060102_150405"), format)
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
