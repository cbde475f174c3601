package migration

import (
	"fmt"

	"gorm.io/gorm"

	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/logger"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PanelModel{},
		&models.ResellerModel{},
		&models.ResellerConfigModel{},
		&models.ConfigEventModel{},
		&models.AuditLogModel{},
		&models.WalletTransactionModel{},
		&models.SystemSettingModel{},
	}
}

// GormAutoMigrateStrategy builds the schema from the models. It backs sqlite
// deployments and development databases where the SQL scripts do not apply.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) Strategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	targets := AutoMigrateModels()
	s.logger.Infow("starting gorm auto migration", "models_count", len(targets))

	if err := db.AutoMigrate(targets...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
