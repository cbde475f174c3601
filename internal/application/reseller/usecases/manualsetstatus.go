package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// SetConfigStatusUseCase is the operator's enable/disable switch. A manually
// disabled config carries no cause marker, so reseller reactivation never
// turns it back on.
type SetConfigStatusUseCase struct {
	configRepo reseller.ConfigRepository
	state      *services.ConfigStateService
	logger     logger.Interface
}

func NewSetConfigStatusUseCase(
	configRepo reseller.ConfigRepository,
	state *services.ConfigStateService,
	logger logger.Interface,
) *SetConfigStatusUseCase {
	return &SetConfigStatusUseCase{
		configRepo: configRepo,
		state:      state,
		logger:     logger,
	}
}

// Enable re-enables the config on the panel and locally, stripping any
// cause marker. An active config is rejected before the panel is called.
func (uc *SetConfigStatusUseCase) Enable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	cfg, err := uc.load(ctx, configID)
	if err != nil {
		return nil, err
	}
	if cfg.IsActive() {
		return nil, apperrors.NewConflictError("config is already active")
	}

	t := services.Enable(vo.EventManualEnabled, vo.ReasonManual)
	t.Actor = actor
	return uc.apply(ctx, cfg, t)
}

// Disable disables the config. Disabling a config that is already off only
// drops its cause marker; without a marker there is nothing to do.
func (uc *SetConfigStatusUseCase) Disable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	cfg, err := uc.load(ctx, configID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive() && cfg.Meta().Cause.Kind == vo.CauseNone {
		return nil, apperrors.NewConflictError("config is already disabled")
	}

	t := services.Disable(reseller.NoCause(), vo.EventManualDisabled, vo.ReasonManual)
	t.Apply = func(c *reseller.Config, now time.Time) bool {
		if c.Disable(reseller.NoCause(), now) {
			return true
		}
		return c.ClearCause(now)
	}
	t.Actor = actor
	return uc.apply(ctx, cfg, t)
}

func (uc *SetConfigStatusUseCase) load(ctx context.Context, configID uint) (*reseller.Config, error) {
	cfg, err := loadConfig(ctx, uc.configRepo, configID)
	if err != nil {
		return nil, err
	}
	if cfg.IsDeleted() {
		return nil, translateError(reseller.ErrConfigDeleted)
	}
	return cfg, nil
}

func (uc *SetConfigStatusUseCase) apply(ctx context.Context, cfg *reseller.Config, t services.Transition) (*dto.ActionResult, error) {
	res, err := uc.state.Apply(ctx, cfg, t)
	if err != nil {
		return nil, translateError(err)
	}
	if res.Changed {
		uc.logger.Infow("config status changed manually",
			"config_id", cfg.ID(),
			"event", t.EventType,
			"status", res.Config.Status(),
			"actor_id", t.Actor.ID,
			"remote_success", res.Outcome.Success,
		)
	}
	return configActionResult(res), nil
}
