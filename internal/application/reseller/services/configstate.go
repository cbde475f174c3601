package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/logger"
)

// RemoteOp is the panel call behind a config transition.
type RemoteOp func(ctx context.Context, client panel.Client, remoteID string) error

// Transition describes one config state change. Apply mutates the config in
// memory and reports whether anything changed; it must be safe to call again
// on a freshly reloaded copy. With RequireRemote the local change is only
// applied after a successful panel call.
type Transition struct {
	Remote        RemoteOp
	RequireRemote bool
	Apply         func(c *reseller.Config, now time.Time) bool
	EventType     vo.EventType
	Reason        string
	AuditAction   string
	Actor         reseller.Actor
	CorrelationID string
	Extra         map[string]interface{}
}

// TransitionResult reports what happened to the config.
type TransitionResult struct {
	Config    *reseller.Config
	Changed   bool
	Outcome   Outcome
	Telemetry *reseller.RemoteTelemetry
}

// RemoteFailed reports whether the local change was applied although the
// panel call did not succeed.
func (r *TransitionResult) RemoteFailed() bool {
	return r.Telemetry != nil && !r.Outcome.Success
}

func DisableRemote(ctx context.Context, client panel.Client, remoteID string) error {
	return client.DisableUser(ctx, remoteID)
}

func EnableRemote(ctx context.Context, client panel.Client, remoteID string) error {
	return client.EnableUser(ctx, remoteID)
}

func ResetRemote(ctx context.Context, client panel.Client, remoteID string) error {
	return client.ResetUsage(ctx, remoteID)
}

// ConfigStateService runs config transitions: the remote call goes through
// the retry executor, and the local transition is applied whatever the remote
// outcome was.
type ConfigStateService struct {
	configRepo reseller.ConfigRepository
	resolver   *PanelResolver
	retry      *RetryExecutor
	recorder   *AuditRecorder
	now        func() time.Time
	logger     logger.Interface
}

func NewConfigStateService(
	configRepo reseller.ConfigRepository,
	resolver *PanelResolver,
	retry *RetryExecutor,
	recorder *AuditRecorder,
	logger logger.Interface,
) *ConfigStateService {
	return &ConfigStateService{
		configRepo: configRepo,
		resolver:   resolver,
		retry:      retry,
		recorder:   recorder,
		now:        biztime.NowUTC,
		logger:     logger,
	}
}

// WithClock replaces the clock used for transition timestamps.
func (s *ConfigStateService) WithClock(now func() time.Time) *ConfigStateService {
	s.now = now
	return s
}

// Apply runs t against cfg. A missing panel configuration is returned before
// anything is changed.
func (s *ConfigStateService) Apply(ctx context.Context, cfg *reseller.Config, t Transition) (*TransitionResult, error) {
	result := &TransitionResult{Config: cfg}

	if t.Remote != nil {
		client, p, err := s.resolver.Resolve(ctx, cfg.PanelID())
		if err != nil {
			s.logger.Warnw("config skipped, panel not usable",
				"config_id", cfg.ID(),
				"panel_id", cfg.PanelID(),
				"error", err,
			)
			return nil, err
		}

		remoteID := cfg.PanelUserID()
		outcome, err := s.retry.Execute(ctx, func(ctx context.Context) error {
			return t.Remote(ctx, client, remoteID)
		}, client)
		if err != nil {
			return nil, err
		}
		result.Outcome = outcome
		result.Telemetry = outcome.Telemetry(p)
		if t.RequireRemote && !outcome.Success {
			return result, nil
		}
	}

	saved, changed, err := s.save(ctx, cfg, t.Apply)
	if err != nil {
		return nil, err
	}
	result.Config = saved
	result.Changed = changed
	if !changed {
		return result, nil
	}

	if err := s.record(ctx, saved, t, result.Telemetry); err != nil {
		s.logger.Errorw("failed to record config transition",
			"config_id", saved.ID(),
			"event_type", t.EventType.String(),
			"error", err,
		)
	}

	return result, nil
}

// save applies the mutation and persists it. On a version conflict the config
// is reloaded and the mutation reapplied once.
func (s *ConfigStateService) save(ctx context.Context, cfg *reseller.Config, apply func(*reseller.Config, time.Time) bool) (*reseller.Config, bool, error) {
	now := s.now()
	if !apply(cfg, now) {
		return cfg, false, nil
	}

	err := s.configRepo.Update(ctx, cfg)
	if err == nil {
		return cfg, true, nil
	}
	if !errors.Is(err, reseller.ErrConcurrentModification) {
		return nil, false, err
	}

	s.logger.Infow("config modified concurrently, reapplying",
		"config_id", cfg.ID(),
		"version", cfg.Version(),
	)

	fresh, err := s.configRepo.GetByID(ctx, cfg.ID())
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload config: %w", err)
	}
	if fresh == nil {
		return nil, false, fmt.Errorf("%w: id=%d", reseller.ErrConfigNotFound, cfg.ID())
	}
	if !apply(fresh, now) {
		return fresh, false, nil
	}
	if err := s.configRepo.Update(ctx, fresh); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (s *ConfigStateService) record(ctx context.Context, cfg *reseller.Config, t Transition, telemetry *reseller.RemoteTelemetry) error {
	extra := make(map[string]interface{}, len(t.Extra)+2)
	for k, v := range t.Extra {
		extra[k] = v
	}
	if t.CorrelationID != "" {
		extra["correlation_id"] = t.CorrelationID
	}
	if !t.Actor.IsSystem() {
		extra["actor_id"] = t.Actor.ID
	}

	if t.EventType != "" {
		if _, err := s.recorder.Event(ctx, cfg.ID(), t.EventType, t.Reason, telemetry, extra); err != nil {
			return err
		}
	}
	if t.AuditAction == "" {
		return nil
	}

	meta := map[string]interface{}{
		"reseller_id": cfg.ResellerID(),
		"panel_id":    cfg.PanelID(),
		"status":      cfg.Status().String(),
	}
	if t.CorrelationID != "" {
		meta["correlation_id"] = t.CorrelationID
	}
	if telemetry != nil {
		meta["remote_success"] = telemetry.Success
		meta["attempts"] = telemetry.Attempts
	}
	_, err := s.recorder.Audit(ctx, t.AuditAction, vo.TargetResellerConfig, cfg.ID(), t.Reason, t.Actor, meta)
	return err
}

// Disable is the transition used for every automatic or manual disable.
func Disable(cause reseller.DisableCause, eventType vo.EventType, reason string) Transition {
	return Transition{
		Remote: DisableRemote,
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.Disable(cause, now)
		},
		EventType:   eventType,
		Reason:      reason,
		AuditAction: vo.ActionConfigDisabled,
	}
}

// Enable is the transition used for every automatic or manual enable.
func Enable(eventType vo.EventType, reason string) Transition {
	return Transition{
		Remote: EnableRemote,
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.Enable(now)
		},
		EventType:   eventType,
		Reason:      reason,
		AuditAction: vo.ActionConfigEnabled,
	}
}

// Expire disables the remote user and marks the config expired.
func Expire() Transition {
	return Transition{
		Remote: DisableRemote,
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.MarkExpired(now)
		},
		EventType:   vo.EventAutoDisabled,
		Reason:      vo.ReasonTimeExpired,
		AuditAction: vo.ActionConfigExpired,
	}
}
