package bootstrap

import (
	"fmt"
	"offboarding-backend/config"
	"offboarding-backend/internal/notify"
	"offboarding-backend/internal/repository"
	"offboarding-backend/internal/usecase"
	"offboarding-backend/internal/workflow"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StageTable returns the configured stage table: STAGES_FILE when set, the
// built-in table otherwise.
func StageTable(cfg config.Config) (workflow.Table, error) {
	if cfg.StagesFile == "" {
		return workflow.DefaultTable(), nil
	}
	return workflow.LoadTableFile(cfg.StagesFile)
}

// NewUsecase wires store, engine and notifier on top of an open database.
func NewUsecase(cfg config.Config, db *gorm.DB, log zerolog.Logger, opts ...usecase.Option) (*usecase.OffboardingUsecase, error) {
	return NewUsecaseWithKV(cfg, repository.NewKVRepository(db), log, opts...)
}

// NewUsecaseWithKV is NewUsecase over any KV backend.
func NewUsecaseWithKV(cfg config.Config, kv repository.KVRepository, log zerolog.Logger, opts ...usecase.Option) (*usecase.OffboardingUsecase, error) {
	table, err := StageTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("stage table: %w", err)
	}

	repo := repository.NewOffboardingRepository(kv, cfg.StorageKey, log)
	engine := workflow.NewEngine(table)
	notifier := notify.New(cfg.SMTP, log)

	return usecase.NewOffboardingUsecase(repo, engine, notifier, log, opts...), nil
}
