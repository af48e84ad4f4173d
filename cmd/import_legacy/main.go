package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"resolvex/internal/config"
	"resolvex/internal/connectors"
	"resolvex/internal/database"
	"resolvex/internal/features/admin"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/complaint"
	"resolvex/internal/features/staff"
	"resolvex/internal/features/user"
	"resolvex/internal/logger"
	"resolvex/pkg/utils"
)

// ImportLegacy migrates complaints from the retired municipal system into the
// complaints collection. Safe to re-run: rows are keyed by legacy id.
func ImportLegacy(
	lc fx.Lifecycle,
	cfg *config.Config,
	importer *complaint.Importer,
	auditService audit.Service,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				utils.SetSecret(cfg.JWTSecret)

				conn, err := connectors.NewLegacyConnector(cfg.LegacyDBDriver, cfg.LegacyDBDSN)
				if err != nil {
					logger.Error("Legacy import misconfigured", zap.Error(err))
					return
				}
				if err := conn.Connect(ctx); err != nil {
					logger.Error("Failed to connect to legacy database", zap.Error(err))
					return
				}
				defer conn.Close()

				logger.Info("Starting legacy complaint import",
					zap.String("driver", cfg.LegacyDBDriver))

				stats, err := importer.Run(ctx, conn)
				status := audit.StatusSuccess
				description := fmt.Sprintf("seen=%d inserted=%d skipped=%d users_created=%d",
					stats.Seen, stats.Inserted, stats.Skipped, stats.UsersCreated)
				if err != nil {
					status = audit.StatusFailure
					description += " error=" + err.Error()
					logger.Error("Legacy import failed", zap.Error(err),
						zap.Int("seen", stats.Seen), zap.Int("inserted", stats.Inserted))
				} else {
					logger.Info("Legacy import complete",
						zap.Int("seen", stats.Seen),
						zap.Int("inserted", stats.Inserted),
						zap.Int("skipped", stats.Skipped),
						zap.Int("users_created", stats.UsersCreated))
				}

				auditService.Record(ctx, audit.Entry{
					Action:      audit.ActionLegacyImport,
					Category:    "import",
					Severity:    audit.SeverityHigh,
					Status:      status,
					TargetModel: "Complaint",
					Description: description,
				})
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewRepository,
			staff.NewRepository,
			admin.NewRepository,
			complaint.NewRepository,
			complaint.NewImporter,
			audit.NewRepository,
			audit.NewService,
			fx.Annotate(user.NewRepository, fx.As(new(audit.UserFinder))),
			fx.Annotate(staff.NewRepository, fx.As(new(audit.StaffFinder))),
			fx.Annotate(admin.NewRepository, fx.As(new(audit.AdminFinder))),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(ImportLegacy),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
