package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/logger"
)

// ReactivationService brings a suspended reseller back and re-enables the
// configs a reseller-level cascade disabled. Configs without a cause marker
// are never touched.
type ReactivationService struct {
	resellerRepo reseller.ResellerRepository
	configRepo   reseller.ConfigRepository
	state        *ConfigStateService
	recorder     *AuditRecorder
	throttle     ThrottleFactory
	now          func() time.Time
	logger       logger.Interface
}

func NewReactivationService(
	resellerRepo reseller.ResellerRepository,
	configRepo reseller.ConfigRepository,
	state *ConfigStateService,
	recorder *AuditRecorder,
	throttle ThrottleFactory,
	logger logger.Interface,
) *ReactivationService {
	return &ReactivationService{
		resellerRepo: resellerRepo,
		configRepo:   configRepo,
		state:        state,
		recorder:     recorder,
		throttle:     throttle,
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

// WithClock replaces the clock used for eligibility checks.
func (s *ReactivationService) WithClock(now func() time.Time) *ReactivationService {
	s.now = now
	return s
}

// Reactivate re-enables r when it is eligible. An ineligible reseller is
// reported through SkipReason, not an error. An active reseller that still
// has marked configs gets them re-enabled without a new audit entry.
func (s *ReactivationService) Reactivate(ctx context.Context, r *reseller.Reseller, settings reseller.EnforcementSettings, actor reseller.Actor) (*CascadeResult, error) {
	if r.Status() == vo.ResellerStatusActive {
		return s.enableMarked(ctx, r, actor, "")
	}

	if reason := r.ReactivationBlocker(s.now(), settings); reason != "" {
		s.logger.Debugw("reseller not eligible for reactivation",
			"reseller_id", r.ID(),
			"status", r.Status().String(),
			"reason", reason,
		)
		return &CascadeResult{SkipReason: reason}, nil
	}

	previous := r.Status()
	won, err := s.resellerRepo.CompareAndSetStatus(ctx, r.ID(),
		[]vo.ResellerStatus{vo.ResellerStatusSuspended, vo.ResellerStatusSuspendedWallet},
		vo.ResellerStatusActive)
	if err != nil {
		return nil, err
	}
	if !won {
		current, err := s.resellerRepo.GetByID(ctx, r.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to reload reseller: %w", err)
		}
		if current == nil || current.Status() != vo.ResellerStatusActive {
			return &CascadeResult{SkipReason: reseller.SkipNotSuspended}, nil
		}
		return s.enableMarked(ctx, current, actor, "")
	}

	if err := r.TransitionTo(vo.ResellerStatusActive); err != nil {
		return nil, err
	}

	reason := vo.ReasonResellerRecovered
	if previous == vo.ResellerStatusSuspendedWallet {
		reason = vo.ReasonWalletRecharged
	}

	correlationID := uuid.NewString()
	if _, err := s.recorder.Audit(ctx, vo.ActionResellerActivated, vo.TargetReseller, r.ID(), reason, actor,
		map[string]interface{}{
			"correlation_id":  correlationID,
			"reseller_id":     r.ID(),
			"previous_status": previous.String(),
			"traffic_used":    r.TrafficUsedBytes(),
			"traffic_total":   r.TrafficTotalBytes(),
			"wallet_balance":  r.WalletBalance(),
		}); err != nil {
		s.logger.Errorw("failed to record reseller activation", "reseller_id", r.ID(), "error", err)
	}

	s.logger.Infow("reseller reactivated",
		"reseller_id", r.ID(),
		"previous_status", previous.String(),
		"correlation_id", correlationID,
	)

	result, err := s.enableMarked(ctx, r, actor, correlationID)
	if err != nil {
		return nil, err
	}
	result.Transitioned = true
	result.CorrelationID = correlationID
	return result, nil
}

func (s *ReactivationService) enableMarked(ctx context.Context, r *reseller.Reseller, actor reseller.Actor, correlationID string) (*CascadeResult, error) {
	configs, err := s.configRepo.ListByReseller(ctx, r.ID(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to list reseller configs: %w", err)
	}

	result := &CascadeResult{}
	throttle := s.throttle()

	for _, cfg := range configs {
		if !cfg.HasResellerCause() {
			continue
		}
		if err := throttle.Wait(ctx); err != nil {
			s.logger.Warnw("reactivation interrupted", "reseller_id", r.ID(), "error", err)
			break
		}

		t := Enable(vo.EventAutoEnabled, cfg.DisableCause().Kind.RecoveryReason())
		t.Actor = actor
		t.CorrelationID = correlationID

		res, err := s.state.Apply(ctx, cfg, t)
		if err != nil {
			result.Failed++
			s.logger.Errorw("failed to enable config during reactivation",
				"reseller_id", r.ID(),
				"config_id", cfg.ID(),
				"error", err,
			)
			continue
		}
		result.Processed++
		if res.RemoteFailed() {
			result.RemoteFailures++
		}
	}

	return result, nil
}
