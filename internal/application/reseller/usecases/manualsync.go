package usecases

import (
	"context"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// ManualSyncUseCase runs the usage sync pass scoped to one config or one
// reseller on demand.
type ManualSyncUseCase struct {
	configRepo   reseller.ConfigRepository
	resellerRepo reseller.ResellerRepository
	resolver     *services.PanelResolver
	sync         *SyncUsageUseCase
	logger       logger.Interface
}

func NewManualSyncUseCase(
	configRepo reseller.ConfigRepository,
	resellerRepo reseller.ResellerRepository,
	resolver *services.PanelResolver,
	sync *SyncUsageUseCase,
	logger logger.Interface,
) *ManualSyncUseCase {
	return &ManualSyncUseCase{
		configRepo:   configRepo,
		resellerRepo: resellerRepo,
		resolver:     resolver,
		sync:         sync,
		logger:       logger,
	}
}

// SyncConfig refreshes one active config. Unlike the scheduled pass, a
// config whose panel is not configured is reported to the caller instead of
// skipped.
func (uc *ManualSyncUseCase) SyncConfig(ctx context.Context, configID uint) (*dto.ActionResult, error) {
	cfg, err := loadConfig(ctx, uc.configRepo, configID)
	if err != nil {
		return nil, err
	}
	if cfg.IsDeleted() {
		return nil, translateError(reseller.ErrConfigDeleted)
	}
	if !cfg.IsActive() {
		return nil, apperrors.NewConflictError("config is not active", cfg.Status().String())
	}
	if _, _, err := uc.resolver.Resolve(ctx, cfg.PanelID()); err != nil {
		return nil, translateError(err)
	}

	id := cfg.ID()
	report, err := uc.sync.Execute(ctx, dto.SyncUsageRequest{ConfigID: &id})
	if err != nil {
		return nil, err
	}

	if cfg, err = loadConfig(ctx, uc.configRepo, configID); err != nil {
		return nil, err
	}
	out := &dto.ActionResult{Result: dto.ResultSucceeded, Config: dto.ToConfigDTO(cfg)}
	if report.ConfigsFailed > 0 || report.ConfigsSkipped > 0 {
		out.Result = dto.ResultSucceededWithWarning
		out.Warning = "usage could not be fetched from the panel"
	}
	return out, nil
}

// SyncReseller refreshes every active config of one reseller, then
// re-evaluates the reseller.
func (uc *ManualSyncUseCase) SyncReseller(ctx context.Context, resellerID uint) (*dto.SyncReport, error) {
	if _, err := loadReseller(ctx, uc.resellerRepo, resellerID); err != nil {
		return nil, err
	}
	uc.logger.Infow("manual reseller sync requested", "reseller_id", resellerID)
	return uc.sync.Execute(ctx, dto.SyncUsageRequest{ResellerID: &resellerID})
}
