package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/logger"
)

type enforcementOutcome int

const (
	outcomeUnchanged enforcementOutcome = iota
	outcomeSuspended
	outcomeReactivated
	outcomeSkipped
)

// resellerEnforcer applies the reseller-level policy to one reseller whose
// aggregate is fresh: suspend an active reseller in breach, reactivate an
// eligible suspended one, and otherwise finish any interrupted cascade.
type resellerEnforcer struct {
	suspension   *services.SuspensionService
	reactivation *services.ReactivationService
	logger       logger.Interface
}

func newResellerEnforcer(
	suspension *services.SuspensionService,
	reactivation *services.ReactivationService,
	logger logger.Interface,
) *resellerEnforcer {
	return &resellerEnforcer{
		suspension:   suspension,
		reactivation: reactivation,
		logger:       logger,
	}
}

func (e *resellerEnforcer) enforce(ctx context.Context, r *reseller.Reseller, settings reseller.EnforcementSettings, now time.Time) (enforcementOutcome, error) {
	if r.Status() == vo.ResellerStatusActive {
		if cause := r.BreachCause(now, settings); cause != vo.CauseNone {
			result, err := e.suspension.Suspend(ctx, r, cause, services.SuspendOptions{Actor: reseller.SystemActor})
			if err != nil {
				return outcomeUnchanged, err
			}
			if result.Transitioned {
				return outcomeSuspended, nil
			}
			return outcomeUnchanged, nil
		}
		_, err := e.reactivation.Reactivate(ctx, r, settings, reseller.SystemActor)
		return outcomeUnchanged, err
	}

	blocker := r.ReactivationBlocker(now, settings)
	if blocker == "" {
		result, err := e.reactivation.Reactivate(ctx, r, settings, reseller.SystemActor)
		if err != nil {
			return outcomeUnchanged, err
		}
		if result.Transitioned {
			return outcomeReactivated, nil
		}
		return outcomeSkipped, nil
	}

	e.logger.Debugw("suspended reseller stays suspended",
		"reseller_id", r.ID(),
		"status", r.Status().String(),
		"reason", blocker,
	)
	if _, err := e.suspension.DisableRemaining(ctx, r, blockerCause(r, blocker), reseller.SystemActor, ""); err != nil {
		return outcomeSkipped, err
	}
	return outcomeSkipped, nil
}

// blockerCause maps the reason a reseller stays suspended to the cause
// recorded on configs disabled late.
func blockerCause(r *reseller.Reseller, blocker string) vo.CauseKind {
	if r.Status() == vo.ResellerStatusSuspendedWallet {
		return vo.CauseWalletExhausted
	}
	switch blocker {
	case reseller.SkipWindowExpired:
		return vo.CauseWindowExpired
	case reseller.SkipWalletTooLow:
		return vo.CauseWalletExhausted
	}
	return vo.CauseQuotaExhausted
}
