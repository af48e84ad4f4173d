package chat

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	common_models "resolvex/internal/common/models"
)

type Controller struct {
	Service Service
	Hub     *Hub
	Logger  *zap.Logger
}

func NewController(service Service, hub *Hub, logger *zap.Logger) *Controller {
	return &Controller{Service: service, Hub: hub, Logger: logger}
}

// HandleWebSocket runs the read loop for one connection. The client sends
// "join" to subscribe to a complaint room and "message" to post; everything
// else comes back as an error frame.
func (ctrl *Controller) HandleWebSocket(c *websocket.Conn) {
	// Locals on an upgraded conn are keyed by plain strings; typed keys are
	// not carried across the upgrade.
	actor, ok := c.Locals(string(common_models.ActorKey)).(*common_models.Actor)
	if !ok {
		_ = c.WriteJSON(Frame{Event: "error", Error: "authentication required"})
		_ = c.Close()
		return
	}

	// All writes after this point go through the client's writer goroutine,
	// so broadcasts never race the acks below.
	client := ctrl.Hub.Register(c)
	defer ctrl.Hub.Unregister(client)

	for {
		var frame Frame
		if err := c.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ctrl.Logger.Debug("chat socket closed", zap.Error(err))
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ctx = common_models.WithActor(ctx, actor)

		switch frame.Event {
		case "join":
			if err := ctrl.Service.CanAccess(ctx, actor, frame.ComplaintID); err != nil {
				client.Enqueue(Frame{Event: "error", ComplaintID: frame.ComplaintID, Error: err.Error()})
				break
			}
			ctrl.Hub.Join(RoomName(frame.ComplaintID), client)
			client.Enqueue(Frame{Event: "joined", ComplaintID: frame.ComplaintID})
		case "message":
			if _, err := ctrl.Service.Send(ctx, actor, frame.ComplaintID, frame.Message); err != nil {
				client.Enqueue(Frame{Event: "error", ComplaintID: frame.ComplaintID, Error: err.Error()})
			}
		default:
			client.Enqueue(Frame{Event: "error", Error: "unknown event"})
		}
		cancel()
	}
}

// GetHistory godoc
func (ctrl *Controller) GetHistory(c *fiber.Ctx) error {
	actor, _ := c.Locals(common_models.ActorKey).(*common_models.Actor)

	messages, err := ctrl.Service.History(c.UserContext(), actor, c.Params("complaintId"))
	if err != nil {
		status := fiber.StatusBadRequest
		switch {
		case errors.Is(err, ErrForbidden):
			status = fiber.StatusForbidden
		case err.Error() == "complaint not found":
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if messages == nil {
		messages = []Message{}
	}
	return c.JSON(fiber.Map{"data": messages})
}
