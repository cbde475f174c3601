package handlers

import (
	"context"

	"panelsync/internal/application/reseller/dto"
	settingdto "panelsync/internal/application/setting/dto"
	"panelsync/internal/domain/reseller"
)

// Use case interfaces for ConfigHandler

type configSyncer interface {
	SyncConfig(ctx context.Context, configID uint) (*dto.ActionResult, error)
}

type configUsageResetter interface {
	Execute(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error)
}

type configStatusSetter interface {
	Enable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error)
	Disable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error)
}

type configLimitsUpdater interface {
	Execute(ctx context.Context, configID uint, req dto.UpdateConfigLimitsRequest, actor reseller.Actor) (*dto.ActionResult, error)
}

type configDeleter interface {
	Execute(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error)
}

type configQueries interface {
	GetConfig(ctx context.Context, configID uint) (*dto.ConfigDTO, error)
	ListConfigEvents(ctx context.Context, configID uint, limit int) ([]*dto.ConfigEventDTO, error)
}

// Use case interfaces for ResellerHandler

type resellerSyncer interface {
	SyncReseller(ctx context.Context, resellerID uint) (*dto.SyncReport, error)
}

type resellerReactivator interface {
	ReactivateOne(ctx context.Context, resellerID uint, actor reseller.Actor) (*dto.ActionResult, error)
}

type resellerQuotaAdjuster interface {
	Execute(ctx context.Context, resellerID uint, req dto.AdjustResellerQuotaRequest, actor reseller.Actor) (*dto.ActionResult, error)
}

type resellerQueries interface {
	GetReseller(ctx context.Context, resellerID uint) (*dto.ResellerDTO, error)
	ListResellers(ctx context.Context, req dto.ListResellersRequest) (*dto.ResellerPage, error)
	ListResellerConfigs(ctx context.Context, resellerID uint) ([]*dto.ConfigDTO, error)
	ListResellerAudit(ctx context.Context, resellerID uint, page, pageSize int) (*dto.AuditLogPage, error)
}

// Use case interfaces for WalletHandler

type walletTopUper interface {
	Execute(ctx context.Context, req dto.TopUpWalletRequest, actor reseller.Actor) (*dto.TopUpWalletResponse, error)
}

// Use case interfaces for ProvisioningHandler

type provisioner interface {
	RegisterPanel(ctx context.Context, req dto.RegisterPanelRequest) (*dto.PanelDTO, error)
	ListPanels(ctx context.Context) ([]*dto.PanelDTO, error)
	CreateReseller(ctx context.Context, req dto.CreateResellerRequest) (*dto.ResellerDTO, error)
	AttachConfig(ctx context.Context, req dto.AttachConfigRequest) (*dto.ConfigDTO, error)
}

// Use case interfaces for SettingHandler

type enforcementSettingsGetter interface {
	Execute(ctx context.Context) *settingdto.EnforcementSettingsResponse
}

type enforcementSettingsUpdater interface {
	Execute(ctx context.Context, request settingdto.UpdateEnforcementSettingsRequest) error
}
