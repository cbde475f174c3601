package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/logger"
)

// SuspendOptions tune one cascade.
type SuspendOptions struct {
	Actor reseller.Actor
	// AuditReason overrides the reason written on the reseller audit entry.
	AuditReason string
}

// CascadeResult summarises one suspension or reactivation.
type CascadeResult struct {
	Transitioned   bool
	CorrelationID  string
	Processed      int
	RemoteFailures int
	Failed         int
	SkipReason     string
}

// SuspensionService moves a reseller into suspension and disables its
// active configs.
type SuspensionService struct {
	resellerRepo reseller.ResellerRepository
	configRepo   reseller.ConfigRepository
	state        *ConfigStateService
	recorder     *AuditRecorder
	throttle     ThrottleFactory
	logger       logger.Interface
}

func NewSuspensionService(
	resellerRepo reseller.ResellerRepository,
	configRepo reseller.ConfigRepository,
	state *ConfigStateService,
	recorder *AuditRecorder,
	throttle ThrottleFactory,
	logger logger.Interface,
) *SuspensionService {
	return &SuspensionService{
		resellerRepo: resellerRepo,
		configRepo:   configRepo,
		state:        state,
		recorder:     recorder,
		throttle:     throttle,
		logger:       logger,
	}
}

// Suspend moves an active reseller to the status matching cause and disables
// every active config. Only the caller that wins the status compare-and-set
// writes the audit entry. A caller that loses while the reseller is already
// suspended still disables configs left active by an interrupted cascade.
func (s *SuspensionService) Suspend(ctx context.Context, r *reseller.Reseller, cause vo.CauseKind, opts SuspendOptions) (*CascadeResult, error) {
	if !cause.IsResellerAttributable() {
		return nil, fmt.Errorf("cause %s cannot suspend a reseller", cause)
	}

	target := cause.SuspendedStatus()
	won, err := s.resellerRepo.CompareAndSetStatus(ctx, r.ID(),
		[]vo.ResellerStatus{vo.ResellerStatusActive}, target)
	if err != nil {
		return nil, err
	}

	if !won {
		current, err := s.resellerRepo.GetByID(ctx, r.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to reload reseller: %w", err)
		}
		if current == nil || !current.Status().IsSuspended() {
			return &CascadeResult{}, nil
		}
		return s.DisableRemaining(ctx, current, cause, opts.Actor, "")
	}

	if err := r.TransitionTo(target); err != nil {
		return nil, err
	}

	active, err := s.activeConfigs(ctx, r.ID())
	if err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	auditReason := opts.AuditReason
	if auditReason == "" {
		auditReason = cause.DefaultReason()
	}

	if _, err := s.recorder.Audit(ctx, vo.ActionResellerSuspended, vo.TargetReseller, r.ID(), auditReason, opts.Actor,
		map[string]interface{}{
			"correlation_id": correlationID,
			"reseller_id":    r.ID(),
			"cause":          cause.String(),
			"status":         target.String(),
			"traffic_used":   r.TrafficUsedBytes(),
			"traffic_total":  r.TrafficTotalBytes(),
			"total_attached": len(active),
			"wallet_balance": r.WalletBalance(),
			"config_reason":  cause.DefaultReason(),
		}); err != nil {
		s.logger.Errorw("failed to record reseller suspension", "reseller_id", r.ID(), "error", err)
	}

	s.logger.Infow("reseller suspended",
		"reseller_id", r.ID(),
		"cause", cause.String(),
		"configs", len(active),
		"correlation_id", correlationID,
	)

	result := s.disable(ctx, r, active, cause, opts.Actor, correlationID)
	result.Transitioned = true
	result.CorrelationID = correlationID
	return result, nil
}

// DisableRemaining disables configs still active under a suspended reseller.
// No reseller audit entry is written.
func (s *SuspensionService) DisableRemaining(ctx context.Context, r *reseller.Reseller, cause vo.CauseKind, actor reseller.Actor, correlationID string) (*CascadeResult, error) {
	active, err := s.activeConfigs(ctx, r.ID())
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return &CascadeResult{}, nil
	}

	s.logger.Infow("disabling configs left active under suspended reseller",
		"reseller_id", r.ID(),
		"configs", len(active),
	)
	return s.disable(ctx, r, active, cause, actor, correlationID), nil
}

func (s *SuspensionService) activeConfigs(ctx context.Context, resellerID uint) ([]*reseller.Config, error) {
	configs, err := s.configRepo.ListByReseller(ctx, resellerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list reseller configs: %w", err)
	}
	active := make([]*reseller.Config, 0, len(configs))
	for _, c := range configs {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *SuspensionService) disable(
	ctx context.Context,
	r *reseller.Reseller,
	configs []*reseller.Config,
	cause vo.CauseKind,
	actor reseller.Actor,
	correlationID string,
) *CascadeResult {
	result := &CascadeResult{}
	throttle := s.throttle()

	for _, cfg := range configs {
		if err := throttle.Wait(ctx); err != nil {
			s.logger.Warnw("suspension cascade interrupted", "reseller_id", r.ID(), "error", err)
			break
		}

		t := Disable(reseller.NewDisableCause(cause, r.ID()), vo.EventAutoDisabled, cause.DefaultReason())
		t.Actor = actor
		t.CorrelationID = correlationID

		res, err := s.state.Apply(ctx, cfg, t)
		if err != nil {
			result.Failed++
			s.logger.Errorw("failed to disable config during suspension",
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

	return result
}
