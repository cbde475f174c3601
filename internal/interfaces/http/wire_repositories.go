package http

import (
	"gorm.io/gorm"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/domain/setting"
	"panelsync/internal/infrastructure/repository"
	"panelsync/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	panelRepo    panel.Repository
	resellerRepo reseller.ResellerRepository
	configRepo   reseller.ConfigRepository
	eventRepo    reseller.ConfigEventRepository
	auditRepo    reseller.AuditLogRepository
	walletRepo   reseller.WalletTransactionRepository
	settingRepo  setting.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		panelRepo:    repository.NewPanelRepository(db, log),
		resellerRepo: repository.NewResellerRepository(db, log),
		configRepo:   repository.NewResellerConfigRepository(db, log),
		eventRepo:    repository.NewConfigEventRepository(db, log),
		auditRepo:    repository.NewAuditLogRepository(db, log),
		walletRepo:   repository.NewWalletTransactionRepository(db, log),
		settingRepo:  repository.NewSystemSettingRepository(db, log),
	}
}
