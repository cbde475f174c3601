package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/logger"
)

// DeleteConfigUseCase soft deletes a config. The remote user is disabled on a
// best-effort basis; a config whose panel is gone can still be deleted. The
// config keeps counting toward its reseller's aggregate.
type DeleteConfigUseCase struct {
	configRepo reseller.ConfigRepository
	state      *services.ConfigStateService
	logger     logger.Interface
}

func NewDeleteConfigUseCase(
	configRepo reseller.ConfigRepository,
	state *services.ConfigStateService,
	logger logger.Interface,
) *DeleteConfigUseCase {
	return &DeleteConfigUseCase{
		configRepo: configRepo,
		state:      state,
		logger:     logger,
	}
}

func (uc *DeleteConfigUseCase) Execute(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	cfg, err := loadConfig(ctx, uc.configRepo, configID)
	if err != nil {
		return nil, err
	}
	if cfg.IsDeleted() {
		return nil, translateError(reseller.ErrConfigDeleted)
	}

	t := services.Transition{
		Remote: services.DisableRemote,
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.SoftDelete(now) == nil
		},
		EventType:   vo.EventDeleted,
		Reason:      vo.ReasonConfigDeleted,
		AuditAction: vo.ActionConfigDeleted,
		Actor:       actor,
	}

	res, err := uc.state.Apply(ctx, cfg, t)
	if err != nil && panel.IsMissingConfiguration(err) {
		uc.logger.Warnw("deleting config without panel call",
			"config_id", configID,
			"panel_id", cfg.PanelID(),
			"error", err,
		)
		t.Remote = nil
		res, err = uc.state.Apply(ctx, cfg, t)
	}
	if err != nil {
		return nil, translateError(err)
	}
	if !res.Changed {
		return nil, translateError(reseller.ErrConfigDeleted)
	}

	uc.logger.Infow("config deleted",
		"config_id", configID,
		"reseller_id", cfg.ResellerID(),
		"actor_id", actor.ID,
		"remote_success", res.Outcome.Success,
	)
	out := configActionResult(res)
	if res.Telemetry == nil {
		out.Result = dto.ResultSucceededWithWarning
		out.Warning = "panel is not configured, remote user was left untouched"
	}
	return out, nil
}
