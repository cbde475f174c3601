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

// ResetConfigUsageUseCase resets a config's counter on the panel and settles
// the local usage. The local reset only happens after the panel confirmed
// it, otherwise the next sync would read the old counter back on top of the
// settled amount.
type ResetConfigUsageUseCase struct {
	configRepo reseller.ConfigRepository
	state      *services.ConfigStateService
	logger     logger.Interface
}

func NewResetConfigUsageUseCase(
	configRepo reseller.ConfigRepository,
	state *services.ConfigStateService,
	logger logger.Interface,
) *ResetConfigUsageUseCase {
	return &ResetConfigUsageUseCase{
		configRepo: configRepo,
		state:      state,
		logger:     logger,
	}
}

func (uc *ResetConfigUsageUseCase) Execute(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	cfg, err := loadConfig(ctx, uc.configRepo, configID)
	if err != nil {
		return nil, err
	}
	if cfg.IsDeleted() {
		return nil, translateError(reseller.ErrConfigDeleted)
	}

	var settled int64
	res, err := uc.state.Apply(ctx, cfg, services.Transition{
		Remote:        services.ResetRemote,
		RequireRemote: true,
		Apply: func(c *reseller.Config, now time.Time) bool {
			settled = c.ResetUsage(now)
			return true
		},
		EventType:   vo.EventUsageReset,
		Reason:      vo.ReasonUsageReset,
		AuditAction: vo.ActionConfigReset,
		Actor:       actor,
	})
	if err != nil {
		return nil, translateError(err)
	}
	if !res.Changed {
		msg := "panel did not confirm the usage reset"
		if res.Outcome.LastError != nil {
			return nil, apperrors.NewUpstreamError(msg, res.Outcome.LastError.Error())
		}
		return nil, apperrors.NewUpstreamError(msg)
	}

	uc.logger.Infow("config usage reset",
		"config_id", configID,
		"settled_bytes", settled,
		"actor_id", actor.ID,
	)
	return configActionResult(res), nil
}
