package main

import (
	"offboarding-backend/config"
	"offboarding-backend/internal/bootstrap"
	"offboarding-backend/internal/database"
	"offboarding-backend/internal/logger"
	"offboarding-backend/internal/usecase"
)

func main() {
	cfg, envLoaded := config.Load()
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "offboarding-seeder",
	})
	if !envLoaded {
		log.Warn().Msg(".env not found, using system environment variables")
	}

	log.Info().Msg("starting database seeding")

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	// Seeding runs the real workflow, so mail goes out synchronously if SMTP is set
	uc, err := bootstrap.NewUsecase(cfg, db, log, usecase.WithSyncNotifications())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build workflow")
	}

	database.SeedAll(uc, log)

	log.Info().Msg("seeding finished")
}
