package middleware

import (
	"context"
	"time"

	common_models "resolvex/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// AuditEvent is the wrapper-mode payload handed to the recorder after the
// response has been written.
type AuditEvent struct {
	Actor       *common_models.Actor
	Action      string
	Category    string
	Severity    string
	Success     bool
	StatusCode  int
	IP          string
	UserAgent   string
	Endpoint    string
	Method      string
	Duration    time.Duration
	TargetModel string
	TargetID    string
}

// AuditRecorder is implemented by the audit service. Declared here so the
// middleware package does not depend on the feature package.
type AuditRecorder interface {
	RecordHTTP(ctx context.Context, ev AuditEvent)
}

// AuditLog records an audit entry after the handler chain completes. The write
// is fire-and-forget: it runs on its own goroutine with a fresh context and a
// failure can never reach the client or delay the response.
func AuditLog(rec AuditRecorder, action, category, severity, targetModel string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		statusCode := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		actor, _ := c.Locals(common_models.ActorKey).(*common_models.Actor)
		ev := AuditEvent{
			Actor:       actor,
			Action:      action,
			Category:    category,
			Severity:    severity,
			Success:     statusCode < 400,
			StatusCode:  statusCode,
			IP:          c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Endpoint:    c.OriginalURL(),
			Method:      c.Method(),
			Duration:    time.Since(start),
			TargetModel: targetModel,
			TargetID:    c.Params("id"),
		}

		go func() {
			defer func() { recover() }()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			rec.RecordHTTP(ctx, ev)
		}()

		return err
	}
}
