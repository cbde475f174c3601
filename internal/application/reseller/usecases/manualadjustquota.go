package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/shared/biztime"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

// AdjustResellerQuotaUseCase tops up a reseller's traffic or moves its window
// end, then tries to reactivate it.
type AdjustResellerQuotaUseCase struct {
	resellerRepo reseller.ResellerRepository
	aggregator   *services.UsageAggregator
	reactivation *services.ReactivationService
	recorder     *services.AuditRecorder
	settings     setting.EnforcementProvider
	logger       logger.Interface
}

func NewAdjustResellerQuotaUseCase(
	resellerRepo reseller.ResellerRepository,
	aggregator *services.UsageAggregator,
	reactivation *services.ReactivationService,
	recorder *services.AuditRecorder,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *AdjustResellerQuotaUseCase {
	return &AdjustResellerQuotaUseCase{
		resellerRepo: resellerRepo,
		aggregator:   aggregator,
		reactivation: reactivation,
		recorder:     recorder,
		settings:     settings,
		logger:       logger,
	}
}

func (uc *AdjustResellerQuotaUseCase) Execute(ctx context.Context, resellerID uint, req dto.AdjustResellerQuotaRequest, actor reseller.Actor) (*dto.ActionResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.AddTrafficBytes == 0 && req.WindowEndsAt == nil && !req.ClearWindow {
		return nil, apperrors.NewValidationError("nothing to update")
	}

	var windowEndsAt *time.Time
	if req.WindowEndsAt != nil && !req.ClearWindow {
		t, err := biztime.ParseDateInBizTimezone(*req.WindowEndsAt)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid window_ends_at", err.Error())
		}
		windowEndsAt = &t
	}

	r, err := loadReseller(ctx, uc.resellerRepo, resellerID)
	if err != nil {
		return nil, err
	}
	previousTotal := r.TrafficTotalBytes()
	if err := r.AdjustQuota(req.AddTrafficBytes, windowEndsAt, req.ClearWindow); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.resellerRepo.UpdateQuota(ctx, resellerID, r.TrafficTotalBytes(), r.WindowEndsAt()); err != nil {
		return nil, err
	}

	meta := map[string]interface{}{
		"previous_traffic_total": previousTotal,
		"traffic_total":          r.TrafficTotalBytes(),
		"add_traffic_bytes":      req.AddTrafficBytes,
	}
	if end := r.WindowEndsAt(); end != nil {
		meta["window_ends_at"] = biztime.FormatMetadataTime(*end)
	}
	if _, err := uc.recorder.Audit(ctx, vo.ActionResellerQuotaAdjusted, vo.TargetReseller, resellerID, vo.ReasonQuotaAdjusted, actor, meta); err != nil {
		uc.logger.Errorw("failed to record quota adjustment", "reseller_id", resellerID, "error", err)
	}
	uc.logger.Infow("reseller quota adjusted",
		"reseller_id", resellerID,
		"traffic_total", r.TrafficTotalBytes(),
		"actor_id", actor.ID,
	)

	r, err = uc.aggregator.Recompute(ctx, resellerID)
	if err != nil {
		return nil, err
	}

	var cascade *services.CascadeResult
	if r.Status().IsSuspended() {
		cascade, err = uc.reactivation.Reactivate(ctx, r, uc.settings.GetEnforcementSettings(ctx), actor)
		if err != nil {
			uc.logger.Errorw("failed to reactivate reseller after quota adjustment", "reseller_id", resellerID, "error", err)
		} else if cascade.SkipReason != "" {
			uc.logger.Infow("reseller stays suspended after quota adjustment",
				"reseller_id", resellerID,
				"reason", cascade.SkipReason,
			)
		}
		if r, err = loadReseller(ctx, uc.resellerRepo, resellerID); err != nil {
			return nil, err
		}
	}
	return resellerActionResult(r, cascade), nil
}
