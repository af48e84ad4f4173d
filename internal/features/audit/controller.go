package audit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

func parseFilter(c *fiber.Ctx) Filter {
	filter := Filter{
		ActorID:     c.Query("actor"),
		ActorKind:   c.Query("actorKind"),
		Action:      c.Query("action"),
		Category:    c.Query("category"),
		Severity:    c.Query("severity"),
		Status:      c.Query("status"),
		TargetModel: c.Query("targetModel"),
		TargetID:    c.Query("targetId"),
		Search:      c.Query("search"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	return filter
}

// ListLogs godoc
func (ctrl *Controller) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	entries, total, err := ctrl.Service.List(c.UserContext(), parseFilter(c), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if entries == nil {
		entries = []Entry{}
	}

	return c.JSON(fiber.Map{
		"data": entries,
		"meta": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetSummary godoc
func (ctrl *Controller) GetSummary(c *fiber.Ctx) error {
	summary, err := ctrl.Service.Summarize(c.UserContext(), parseFilter(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// GetTrail godoc
func (ctrl *Controller) GetTrail(c *fiber.Ctx) error {
	targetModel := c.Params("targetModel")
	targetID := c.Params("targetId")

	entries, err := ctrl.Service.Trail(c.UserContext(), targetModel, targetID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if entries == nil {
		entries = []Entry{}
	}
	return c.JSON(fiber.Map{"data": entries})
}

// ExportLogs godoc
func (ctrl *Controller) ExportLogs(c *fiber.Ctx) error {
	format := c.Query("format", "csv")
	if format != "csv" && format != "json" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be csv or json",
		})
	}

	payload, contentType, err := ctrl.Service.Export(c.UserContext(), parseFilter(c), format)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", "attachment; filename=audit-export."+format)
	return c.Send(payload)
}
