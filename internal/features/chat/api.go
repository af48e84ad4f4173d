package chat

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/middleware"
	"resolvex/pkg/utils"
)

type Api struct {
	controller *Controller
}

func NewApi(controller *Controller) *Api {
	return &Api{controller: controller}
}

// wsAuth authenticates the upgrade request from a `token` query parameter,
// since browsers cannot set the Authorization header on websocket handshakes.
func wsAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := utils.ValidateToken(c.Query("token"), utils.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		// The upgrade only carries string-keyed locals onto the socket, so
		// the actor is stored under the key's string form here.
		c.Locals(string(common_models.ActorKey), &common_models.Actor{
			Ref: common_models.ActorRef{
				Kind: common_models.ActorKind(claims.ActorKind),
				ID:   claims.ActorID,
			},
			Role: claims.Role,
		})
		return c.Next()
	}
}

func (h *Api) Setup(app *fiber.App) {
	app.Get("/api/chat/ws", wsAuth(), websocket.New(h.controller.HandleWebSocket))

	chat := app.Group("/api/chat", middleware.AuthMiddleware())
	chat.Get("/:complaintId/messages", h.controller.GetHistory)
}
