package main

import (
	"offboarding-backend/config"
	"offboarding-backend/internal/bootstrap"
	"offboarding-backend/internal/logger"
	"offboarding-backend/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg, envLoaded := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "offboarding-api",
	})
	if !envLoaded {
		log.Warn().Msg(".env not found, using system environment variables")
	}

	// 1. Open the local store
	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open store")
	}
	log.Info().Str("driver", cfg.DBDriver).Str("key", cfg.StorageKey).Msg("store ready")

	// 2. Workflow + notifications
	uc, err := bootstrap.NewUsecase(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build workflow")
	}
	if !cfg.SMTP.Enabled() {
		log.Info().Msg("SMTP_HOST not set, notifications are written to the log")
	}

	app := fiber.New()

	// Middleware Global
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	routes.SetupHealthRoutes(app)
	routes.SetupStageRoutes(app, uc.Table())
	routes.SetupOffboardingRoutes(app, uc)

	log.Info().Str("port", cfg.AppPort).Msg("server listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
