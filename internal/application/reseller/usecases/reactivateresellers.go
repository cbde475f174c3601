package usecases

import (
	"context"
	"fmt"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/shared/biztime"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// ReactivateResellersUseCase sweeps suspended resellers. It recomputes each
// aggregate first, so usage written by other processes is taken into account.
type ReactivateResellersUseCase struct {
	resellerRepo reseller.ResellerRepository
	aggregator   *services.UsageAggregator
	reactivation *services.ReactivationService
	enforcer     *resellerEnforcer
	settings     setting.EnforcementProvider
	now          func() time.Time
	logger       logger.Interface
}

func NewReactivateResellersUseCase(
	resellerRepo reseller.ResellerRepository,
	aggregator *services.UsageAggregator,
	suspension *services.SuspensionService,
	reactivation *services.ReactivationService,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *ReactivateResellersUseCase {
	return &ReactivateResellersUseCase{
		resellerRepo: resellerRepo,
		aggregator:   aggregator,
		reactivation: reactivation,
		enforcer:     newResellerEnforcer(suspension, reactivation, logger),
		settings:     settings,
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

func (uc *ReactivateResellersUseCase) WithClock(now func() time.Time) *ReactivateResellersUseCase {
	uc.now = now
	return uc
}

// Execute evaluates every suspended reseller.
func (uc *ReactivateResellersUseCase) Execute(ctx context.Context) (*dto.EnforcementReport, error) {
	settings := uc.settings.GetEnforcementSettings(ctx)
	report := &dto.EnforcementReport{}

	suspended, _, err := uc.resellerRepo.List(ctx, reseller.ResellerFilter{
		Statuses: []vo.ResellerStatus{vo.ResellerStatusSuspended, vo.ResellerStatusSuspendedWallet},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list suspended resellers: %w", err)
	}

	for _, r := range suspended {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Evaluated++

		fresh, err := uc.aggregator.Recompute(ctx, r.ID())
		if err != nil {
			report.Failed++
			uc.logger.Errorw("failed to recompute reseller usage", "reseller_id", r.ID(), "error", err)
			continue
		}

		outcome, err := uc.enforcer.enforce(ctx, fresh, settings, uc.now())
		if err != nil {
			report.Failed++
			uc.logger.Errorw("failed to evaluate suspended reseller", "reseller_id", r.ID(), "error", err)
			continue
		}
		switch outcome {
		case outcomeReactivated:
			report.Reactivated++
		case outcomeSkipped:
			report.Skipped++
		}
	}

	if report.Reactivated > 0 {
		uc.logger.Infow("reactivation sweep completed",
			"evaluated", report.Evaluated,
			"reactivated", report.Reactivated,
			"skipped", report.Skipped,
		)
	}
	return report, nil
}

// ReactivateOne is the manual trigger for a single reseller. An ineligible
// reseller is a conflict carrying the skip reason.
func (uc *ReactivateResellersUseCase) ReactivateOne(ctx context.Context, resellerID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	r, err := uc.aggregator.Recompute(ctx, resellerID)
	if err != nil {
		return nil, notFoundOr(err, reseller.ErrResellerNotFound, "reseller not found")
	}

	result, err := uc.reactivation.Reactivate(ctx, r, uc.settings.GetEnforcementSettings(ctx), actor)
	if err != nil {
		return nil, err
	}
	if result.SkipReason != "" {
		return nil, apperrors.NewConflictError("reseller cannot be reactivated", result.SkipReason)
	}

	if r, err = loadReseller(ctx, uc.resellerRepo, resellerID); err != nil {
		return nil, err
	}
	return resellerActionResult(r, result), nil
}

func resellerActionResult(r *reseller.Reseller, result *services.CascadeResult) *dto.ActionResult {
	out := &dto.ActionResult{Result: dto.ResultSucceeded, Reseller: dto.ToResellerDTO(r)}
	if result != nil && (result.RemoteFailures > 0 || result.Failed > 0) {
		out.Result = dto.ResultSucceededWithWarning
		out.Warning = fmt.Sprintf("%d config(s) could not be updated on the panel", result.RemoteFailures+result.Failed)
	}
	return out
}
