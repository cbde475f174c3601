package usecases

import (
	"context"
	"fmt"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/logger"
)

// SyncUsageUseCase is the usage sync pass. It pulls remote counters for every
// active config in scope, applies the per-config policy, then recomputes and
// enforces each touched reseller. A failure on one config or reseller never
// stops the others.
type SyncUsageUseCase struct {
	configRepo   reseller.ConfigRepository
	resellerRepo reseller.ResellerRepository
	resolver     *services.PanelResolver
	retry        *services.RetryExecutor
	state        *services.ConfigStateService
	aggregator   *services.UsageAggregator
	enforcer     *resellerEnforcer
	settings     setting.EnforcementProvider
	now          func() time.Time
	logger       logger.Interface
}

func NewSyncUsageUseCase(
	configRepo reseller.ConfigRepository,
	resellerRepo reseller.ResellerRepository,
	resolver *services.PanelResolver,
	retry *services.RetryExecutor,
	state *services.ConfigStateService,
	aggregator *services.UsageAggregator,
	suspension *services.SuspensionService,
	reactivation *services.ReactivationService,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *SyncUsageUseCase {
	return &SyncUsageUseCase{
		configRepo:   configRepo,
		resellerRepo: resellerRepo,
		resolver:     resolver,
		retry:        retry,
		state:        state,
		aggregator:   aggregator,
		enforcer:     newResellerEnforcer(suspension, reactivation, logger),
		settings:     settings,
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

// WithClock replaces the clock used for expiry and window checks.
func (uc *SyncUsageUseCase) WithClock(now func() time.Time) *SyncUsageUseCase {
	uc.now = now
	return uc
}

func (uc *SyncUsageUseCase) Execute(ctx context.Context, req dto.SyncUsageRequest) (*dto.SyncReport, error) {
	settings := uc.settings.GetEnforcementSettings(ctx)
	report := &dto.SyncReport{}

	configs, err := uc.configRepo.ListActiveForSync(ctx, reseller.ConfigFilter{
		ConfigID:   req.ConfigID,
		ResellerID: req.ResellerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list configs for sync: %w", err)
	}

	var order []uint
	groups := make(map[uint][]*reseller.Config)
	for _, cfg := range configs {
		if _, ok := groups[cfg.ResellerID()]; !ok {
			order = append(order, cfg.ResellerID())
		}
		groups[cfg.ResellerID()] = append(groups[cfg.ResellerID()], cfg)
	}

	// Suspended resellers may have no active config left; they still need a
	// reactivation check.
	if req.ConfigID == nil {
		extra, err := uc.suspendedResellers(ctx, req.ResellerID)
		if err != nil {
			uc.logger.Errorw("failed to list suspended resellers", "error", err)
		}
		for _, id := range extra {
			if _, ok := groups[id]; !ok {
				order = append(order, id)
				groups[id] = nil
			}
		}
		if req.ResellerID != nil {
			if _, ok := groups[*req.ResellerID]; !ok {
				order = append(order, *req.ResellerID)
			}
		}
	}

	for _, resellerID := range order {
		if err := ctx.Err(); err != nil {
			uc.logger.Warnw("usage sync interrupted", "error", err)
			return report, err
		}

		for _, cfg := range groups[resellerID] {
			uc.syncConfig(ctx, cfg, settings, report)
		}
		uc.evaluateReseller(ctx, resellerID, settings, report)
	}

	uc.logger.Infow("usage sync completed",
		"configs_checked", report.ConfigsChecked,
		"configs_updated", report.ConfigsUpdated,
		"configs_failed", report.ConfigsFailed,
		"configs_skipped", report.ConfigsSkipped,
		"configs_disabled", report.ConfigsDisabled,
		"configs_expired", report.ConfigsExpired,
		"resellers_suspended", report.ResellersSuspended,
		"resellers_reactivated", report.ResellersReactivated,
	)
	return report, nil
}

func (uc *SyncUsageUseCase) suspendedResellers(ctx context.Context, scope *uint) ([]uint, error) {
	filter := reseller.ResellerFilter{
		Statuses: []vo.ResellerStatus{vo.ResellerStatusSuspended, vo.ResellerStatusSuspendedWallet},
	}
	if scope != nil {
		filter.IDs = []uint{*scope}
	}
	list, _, err := uc.resellerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID())
	}
	return ids, nil
}

// syncConfig fetches one config's usage and applies expiry and the traffic
// limit. Nothing is written when the fetch fails.
func (uc *SyncUsageUseCase) syncConfig(ctx context.Context, cfg *reseller.Config, settings reseller.EnforcementSettings, report *dto.SyncReport) {
	report.ConfigsChecked++

	used, ok := uc.fetchUsage(ctx, cfg, report)
	if !ok {
		return
	}

	result, err := uc.state.Apply(ctx, cfg, services.Transition{
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.RecordUsage(used, now)
		},
	})
	if err != nil {
		report.ConfigsFailed++
		uc.logger.Errorw("failed to store config usage", "config_id", cfg.ID(), "error", err)
		return
	}
	if result.Changed {
		report.ConfigsUpdated++
	}
	cfg = result.Config

	if !cfg.IsActive() {
		return
	}

	now := uc.now()
	if cfg.IsExpired(now, settings.ExpiryGraceMinutes) {
		if res, err := uc.state.Apply(ctx, cfg, services.Expire()); err != nil {
			uc.logger.Errorw("failed to expire config", "config_id", cfg.ID(), "error", err)
		} else if res.Changed {
			report.ConfigsExpired++
			uc.logger.Infow("config expired",
				"config_id", cfg.ID(),
				"reseller_id", cfg.ResellerID(),
				"remote_success", res.Outcome.Success,
			)
		}
		return
	}

	if cfg.IsOverLimit(settings.ConfigGrace, settings.AllowConfigOverrun) {
		t := services.Disable(reseller.NoCause(), vo.EventAutoDisabled, vo.ReasonTrafficExceeded)
		t.Extra = map[string]interface{}{
			"usage_bytes":         cfg.UsageBytes(),
			"traffic_limit_bytes": cfg.TrafficLimitBytes(),
		}
		if res, err := uc.state.Apply(ctx, cfg, t); err != nil {
			uc.logger.Errorw("failed to disable config over limit", "config_id", cfg.ID(), "error", err)
		} else if res.Changed {
			report.ConfigsDisabled++
			uc.logger.Infow("config disabled for traffic",
				"config_id", cfg.ID(),
				"reseller_id", cfg.ResellerID(),
				"usage_bytes", cfg.UsageBytes(),
				"traffic_limit_bytes", cfg.TrafficLimitBytes(),
				"remote_success", res.Outcome.Success,
			)
		}
	}
}

func (uc *SyncUsageUseCase) fetchUsage(ctx context.Context, cfg *reseller.Config, report *dto.SyncReport) (int64, bool) {
	client, _, err := uc.resolver.Resolve(ctx, cfg.PanelID())
	if err != nil {
		report.ConfigsSkipped++
		uc.logger.Warnw("config skipped",
			"config_id", cfg.ID(),
			"panel_id", cfg.PanelID(),
			"error", err,
		)
		return 0, false
	}

	var user *panel.RemoteUser
	outcome, err := uc.retry.Execute(ctx, func(ctx context.Context) error {
		u, err := client.GetUser(ctx, cfg.PanelUserID())
		if err != nil {
			return err
		}
		user = u
		return nil
	}, client)
	if err != nil {
		report.ConfigsSkipped++
		uc.logger.Warnw("config skipped", "config_id", cfg.ID(), "error", err)
		return 0, false
	}
	if !outcome.Success {
		report.ConfigsFailed++
		uc.logger.Warnw("failed to fetch config usage",
			"config_id", cfg.ID(),
			"panel_id", cfg.PanelID(),
			"attempts", outcome.Attempts,
			"error", outcome.LastError,
		)
		return 0, false
	}
	return user.UsedBytes, true
}

func (uc *SyncUsageUseCase) evaluateReseller(ctx context.Context, resellerID uint, settings reseller.EnforcementSettings, report *dto.SyncReport) {
	r, err := uc.aggregator.Recompute(ctx, resellerID)
	if err != nil {
		uc.logger.Errorw("failed to recompute reseller usage", "reseller_id", resellerID, "error", err)
		return
	}
	report.ResellersEvaluated++

	outcome, err := uc.enforcer.enforce(ctx, r, settings, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to enforce reseller policy", "reseller_id", resellerID, "error", err)
	}
	switch outcome {
	case outcomeSuspended:
		report.ResellersSuspended++
	case outcomeReactivated:
		report.ResellersReactivated++
	}
}
