package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

// UpdateConfigLimitsUseCase edits a config's traffic limit and expiry date.
// The new values only take effect locally; the next sync pass enforces them.
type UpdateConfigLimitsUseCase struct {
	configRepo reseller.ConfigRepository
	state      *services.ConfigStateService
	logger     logger.Interface
}

func NewUpdateConfigLimitsUseCase(
	configRepo reseller.ConfigRepository,
	state *services.ConfigStateService,
	logger logger.Interface,
) *UpdateConfigLimitsUseCase {
	return &UpdateConfigLimitsUseCase{
		configRepo: configRepo,
		state:      state,
		logger:     logger,
	}
}

func (uc *UpdateConfigLimitsUseCase) Execute(ctx context.Context, configID uint, req dto.UpdateConfigLimitsRequest, actor reseller.Actor) (*dto.ActionResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.TrafficLimitBytes == nil && req.ExpiresAt == nil && !req.ClearExpiry {
		return nil, apperrors.NewValidationError("nothing to update")
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil && !req.ClearExpiry {
		t, err := biztime.ParseDateInBizTimezone(*req.ExpiresAt)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid expires_at", err.Error())
		}
		expiresAt = &t
	}

	cfg, err := loadConfig(ctx, uc.configRepo, configID)
	if err != nil {
		return nil, err
	}

	extra := map[string]interface{}{
		"previous_traffic_limit_bytes": cfg.TrafficLimitBytes(),
	}
	if prev := cfg.ExpiresAt(); prev != nil {
		extra["previous_expires_at"] = biztime.FormatMetadataTime(*prev)
	}
	if req.TrafficLimitBytes != nil {
		extra["traffic_limit_bytes"] = *req.TrafficLimitBytes
	}
	if expiresAt != nil {
		extra["expires_at"] = biztime.FormatMetadataTime(*expiresAt)
	}
	if req.ClearExpiry {
		extra["clear_expiry"] = true
	}

	var applyErr error
	res, err := uc.state.Apply(ctx, cfg, services.Transition{
		Apply: func(c *reseller.Config, now time.Time) bool {
			applyErr = c.UpdateLimits(req.TrafficLimitBytes, expiresAt, req.ClearExpiry, now)
			return applyErr == nil
		},
		EventType:   vo.EventEdited,
		Reason:      vo.ReasonLimitsEdited,
		AuditAction: vo.ActionConfigEdited,
		Actor:       actor,
		Extra:       extra,
	})
	if applyErr != nil {
		return nil, translateError(applyErr)
	}
	if err != nil {
		return nil, translateError(err)
	}

	uc.logger.Infow("config limits updated",
		"config_id", configID,
		"traffic_limit_bytes", res.Config.TrafficLimitBytes(),
		"actor_id", actor.ID,
	)
	return configActionResult(res), nil
}
