package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "resolvex/internal/common/api"
	"resolvex/internal/config"
	"resolvex/internal/database"
	"resolvex/internal/features/admin"
	"resolvex/internal/features/analytics"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/auth"
	"resolvex/internal/features/chat"
	"resolvex/internal/features/complaint"
	"resolvex/internal/features/department"
	"resolvex/internal/features/email"
	"resolvex/internal/features/otp"
	"resolvex/internal/features/routing"
	"resolvex/internal/features/staff"
	"resolvex/internal/features/user"
	"resolvex/internal/logger"
	"resolvex/internal/middleware"
	"resolvex/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	zl *zap.Logger,
	users user.Repository,
	staffRepo staff.Repository,
	admins admin.Repository,
	departments department.Repository,
	complaints complaint.Repository,
	audits audit.Repository,
	otps otp.Repository,
	chats chat.Repository,
	rules routing.Repository,
) {
	type indexed struct {
		name string
		repo interface {
			EnsureIndexes(ctx context.Context) error
		}
	}
	all := []indexed{
		{"users", users},
		{"staff", staffRepo},
		{"admins", admins},
		{"departments", departments},
		{"complaints", complaints},
		{"audit_logs", audits},
		{"otps", otps},
		{"chat_messages", chats},
		{"routing_rules", rules},
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for _, it := range all {
					if err := it.repo.EnsureIndexes(ctx); err != nil {
						zl.Warn("failed to ensure indexes",
							zap.String("collection", it.name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// StartRetentionPruner runs the audit retention sweep on a daily schedule.
func StartRetentionPruner(lc fx.Lifecycle, auditService audit.Service, cfg *config.Config, zl *zap.Logger) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		pruned, err := auditService.Prune(ctx, cfg.AuditRetention)
		if err != nil {
			zl.Error("audit retention prune failed", zap.Error(err))
			return
		}
		zl.Info("audit retention prune complete", zap.Int64("pruned", pruned))
	})
	if err != nil {
		zl.Error("failed to schedule audit retention prune", zap.Error(err))
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewRepository,
			staff.NewRepository,
			admin.NewRepository,
			department.NewRepository,
			complaint.NewRepository,
			audit.NewRepository,
			otp.NewRepository,
			email.NewRepository,
			chat.NewRepository,
			routing.NewRepository,
			analytics.NewRepository,

			// Initialize Service
			audit.NewService,
			email.NewService,
			otp.NewService,
			auth.NewService,
			user.NewService,
			staff.NewService,
			department.NewService,
			complaint.NewService,
			routing.NewService,
			analytics.NewService,
			chat.NewHub,
			chat.NewService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.Repository) audit.UserFinder { return r },
			func(r staff.Repository) audit.StaffFinder { return r },
			func(r admin.Repository) audit.AdminFinder { return r },
			func(r complaint.Repository) user.ComplaintCounter { return r },
			func(r complaint.Repository) staff.AssignmentCounter { return r },
			func(s routing.Service) complaint.Router { return s },
			func(s audit.Service) middleware.AuditRecorder { return s },
			func(h *chat.Hub) chat.Broadcaster { return h },

			// Initialize Controller
			auth.NewController,
			user.NewController,
			staff.NewController,
			department.NewController,
			complaint.NewController,
			audit.NewController,
			routing.NewController,
			analytics.NewController,
			chat.NewController,

			// Initialize API Routes
			AsRoute(auth.NewApi),
			AsRoute(user.NewApi),
			AsRoute(staff.NewApi),
			AsRoute(department.NewApi),
			AsRoute(complaint.NewApi),
			AsRoute(audit.NewApi),
			AsRoute(routing.NewApi),
			AsRoute(analytics.NewApi),
			AsRoute(chat.NewApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartRetentionPruner,
			InitializeIndexes,
		),
	)

	app.Run()
}
