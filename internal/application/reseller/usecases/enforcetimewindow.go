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
	"panelsync/internal/shared/logger"
)

// EnforceTimeWindowUseCase suspends resellers whose window has ended and
// hands suspended resellers with a valid window to reactivation. Repeated
// ticks are no-ops.
type EnforceTimeWindowUseCase struct {
	resellerRepo reseller.ResellerRepository
	suspension   *services.SuspensionService
	reactivation *services.ReactivationService
	settings     setting.EnforcementProvider
	now          func() time.Time
	logger       logger.Interface
}

func NewEnforceTimeWindowUseCase(
	resellerRepo reseller.ResellerRepository,
	suspension *services.SuspensionService,
	reactivation *services.ReactivationService,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *EnforceTimeWindowUseCase {
	return &EnforceTimeWindowUseCase{
		resellerRepo: resellerRepo,
		suspension:   suspension,
		reactivation: reactivation,
		settings:     settings,
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

func (uc *EnforceTimeWindowUseCase) WithClock(now func() time.Time) *EnforceTimeWindowUseCase {
	uc.now = now
	return uc
}

func (uc *EnforceTimeWindowUseCase) Execute(ctx context.Context) (*dto.EnforcementReport, error) {
	settings := uc.settings.GetEnforcementSettings(ctx)
	now := uc.now()
	report := &dto.EnforcementReport{}

	resellers, _, err := uc.resellerRepo.List(ctx, reseller.ResellerFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list resellers: %w", err)
	}

	for _, r := range resellers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		switch {
		case r.Status() == vo.ResellerStatusActive && r.IsWindowExpired(now):
			report.Evaluated++
			result, err := uc.suspension.Suspend(ctx, r, vo.CauseWindowExpired, services.SuspendOptions{
				Actor:       reseller.SystemActor,
				AuditReason: vo.ReasonTimeWindowExpired,
			})
			if err != nil {
				report.Failed++
				uc.logger.Errorw("failed to suspend reseller for expired window", "reseller_id", r.ID(), "error", err)
				continue
			}
			if result.Transitioned {
				report.Suspended++
				uc.logger.Infow("reseller window expired",
					"reseller_id", r.ID(),
					"window_ends_at", r.WindowEndsAt(),
					"configs_disabled", result.Processed,
				)
			}

		case r.Status().IsSuspended() && !r.IsWindowExpired(now):
			report.Evaluated++
			result, err := uc.reactivation.Reactivate(ctx, r, settings, reseller.SystemActor)
			if err != nil {
				report.Failed++
				uc.logger.Errorw("failed to reactivate reseller", "reseller_id", r.ID(), "error", err)
				continue
			}
			if result.Transitioned {
				report.Reactivated++
			} else {
				report.Skipped++
			}
		}
	}

	if report.Suspended > 0 || report.Reactivated > 0 {
		uc.logger.Infow("time window enforcement completed",
			"evaluated", report.Evaluated,
			"suspended", report.Suspended,
			"reactivated", report.Reactivated,
		)
	}
	return report, nil
}
