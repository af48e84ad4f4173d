package complaint

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	common_models "resolvex/internal/common/models"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

func currentActor(c *fiber.Ctx) *common_models.Actor {
	actor, _ := c.Locals(common_models.ActorKey).(*common_models.Actor)
	return actor
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrAlreadyVoted):
		return fiber.StatusConflict
	case strings.Contains(err.Error(), "not found"):
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

// CreateComplaint godoc
func (ctrl *Controller) CreateComplaint(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := ctrl.Service.Create(c.UserContext(), currentActor(c), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Complaint submitted successfully",
		"data":    created,
	})
}

// GetComplaint godoc
func (ctrl *Controller) GetComplaint(c *fiber.Ctx) error {
	complaint, err := ctrl.Service.Get(c.UserContext(), currentActor(c), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(complaint)
}

// ListComplaints godoc
func (ctrl *Controller) ListComplaints(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	filter := ListFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Category:   c.Query("category"),
		AssignedTo: c.Query("assignedTo"),
		Owner:      c.Query("user"),
	}

	complaints, total, err := ctrl.Service.ListAll(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if complaints == nil {
		complaints = []Populated{}
	}

	return c.JSON(fiber.Map{
		"data": complaints,
		"meta": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ListMyComplaints godoc
func (ctrl *Controller) ListMyComplaints(c *fiber.Ctx) error {
	complaints, err := ctrl.Service.ListMine(c.UserContext(), currentActor(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if complaints == nil {
		complaints = []Populated{}
	}
	return c.JSON(fiber.Map{"data": complaints})
}

// ListAssignedComplaints godoc
func (ctrl *Controller) ListAssignedComplaints(c *fiber.Ctx) error {
	actor := currentActor(c)
	complaints, err := ctrl.Service.ListAssigned(c.UserContext(), actor.Ref.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if complaints == nil {
		complaints = []Populated{}
	}
	return c.JSON(fiber.Map{"data": complaints})
}

// UpdateComplaint godoc
func (ctrl *Controller) UpdateComplaint(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := ctrl.Service.Update(c.UserContext(), currentActor(c), c.Params("id"), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "Complaint updated successfully",
		"data":     result.Complaint,
		"updates":  result.Updates,
		"activity": result.Activity,
	})
}

// AddComment godoc
func (ctrl *Controller) AddComment(c *fiber.Ctx) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := ctrl.Service.AddComment(c.UserContext(), currentActor(c), c.Params("id"), body.Message)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Comment added successfully",
		"data":    updated,
	})
}

// VoteComplaint godoc
func (ctrl *Controller) VoteComplaint(c *fiber.Ctx) error {
	updated, err := ctrl.Service.Vote(c.UserContext(), currentActor(c), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Vote recorded",
		"data":    updated,
	})
}

// BulkAssign godoc
func (ctrl *Controller) BulkAssign(c *fiber.Ctx) error {
	var body struct {
		ComplaintIDs []string `json:"complaintIds"`
		StaffID      string   `json:"assignedTo"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	assigned, skipped, err := ctrl.Service.BulkAssign(c.UserContext(), currentActor(c), body.ComplaintIDs, body.StaffID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "Bulk assignment completed",
		"assigned": assigned,
		"skipped":  skipped,
	})
}

// DeleteComplaint godoc
func (ctrl *Controller) DeleteComplaint(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), currentActor(c), c.Params("id")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Complaint deleted successfully"})
}
