package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"resolvex/internal/config"
	"resolvex/internal/database"
	"resolvex/internal/features/admin"
	"resolvex/internal/features/department"
	"resolvex/internal/logger"
	"resolvex/pkg/utils"
)

// defaultDepartments is the standard municipal layout. Seeding is idempotent:
// existing departments are left alone.
var defaultDepartments = []department.Department{
	{Name: "Roads and Infrastructure", Category: department.CategoryInfrastructure, Description: "Road maintenance, potholes, footpaths and public works"},
	{Name: "Water Supply", Category: department.CategoryUtilities, Description: "Drinking water, sewage and drainage"},
	{Name: "Electricity", Category: department.CategoryUtilities, Description: "Street lighting and power distribution faults"},
	{Name: "Sanitation", Category: department.CategoryHealth, Description: "Garbage collection and public hygiene"},
	{Name: "Public Safety", Category: department.CategoryPublicSafety, Description: "Street safety, encroachment and hazards"},
	{Name: "Transport", Category: department.CategoryAdministrative, Description: "Public transport and traffic management"},
	{Name: "General Administration", Category: department.CategoryAdministrative, Description: "Everything that fits nowhere else"},
}

// Seed provisions the default departments and the bootstrap admin account.
func Seed(
	lc fx.Lifecycle,
	cfg *config.Config,
	deptRepo department.Repository,
	adminRepo admin.Repository,
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

				created := 0
				for i := range defaultDepartments {
					dept := defaultDepartments[i]
					dept.IsActive = true

					if _, err := deptRepo.FindByName(ctx, dept.Name); err == nil {
						continue
					} else if !errors.Is(err, mongo.ErrNoDocuments) {
						logger.Error("Department lookup failed", zap.String("name", dept.Name), zap.Error(err))
						return
					}

					if err := deptRepo.Create(ctx, &dept); err != nil {
						logger.Error("Failed to seed department", zap.String("name", dept.Name), zap.Error(err))
						return
					}
					created++
				}
				logger.Info("Departments seeded", zap.Int("created", created),
					zap.Int("total", len(defaultDepartments)))

				email := os.Getenv("ADMIN_EMAIL")
				password := os.Getenv("ADMIN_PASSWORD")
				if email == "" || password == "" {
					logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
					return
				}

				if _, err := adminRepo.FindByEmail(ctx, email); err == nil {
					logger.Info("Admin account already exists", zap.String("email", email))
					return
				} else if !errors.Is(err, mongo.ErrNoDocuments) {
					logger.Error("Admin lookup failed", zap.Error(err))
					return
				}

				hash, err := utils.HashPassword(password)
				if err != nil {
					logger.Error("Failed to hash admin password", zap.Error(err))
					return
				}
				account := &admin.Admin{
					Name:     "Administrator",
					Email:    email,
					Password: hash,
				}
				if err := adminRepo.Create(ctx, account); err != nil {
					logger.Error("Failed to create admin account", zap.Error(err))
					return
				}
				logger.Info("Bootstrap admin created", zap.String("email", email))
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
			department.NewRepository,
			admin.NewRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
