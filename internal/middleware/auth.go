package middleware

import (
	common_models "resolvex/internal/common/models"
	"resolvex/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer access tokens and injects the actor into context
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(authHeader[7:], utils.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		actor := &common_models.Actor{
			Ref: common_models.ActorRef{
				Kind: common_models.ActorKind(claims.ActorKind),
				ID:   claims.ActorID,
			},
			Role: claims.Role,
		}
		c.Locals(common_models.ActorKey, actor)
		c.Locals(common_models.RequestIPKey, c.IP())
		c.SetUserContext(common_models.WithActor(c.UserContext(), actor))
		return c.Next()
	}
}

// RequireRole guards a route group to the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(common_models.ActorKey).(*common_models.Actor)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}
