package scheduler

import (
	"fmt"

	"panelsync/internal/shared/config"
)

// Job names.
const (
	JobUsageSync     = "usage-sync"
	JobTimeWindow    = "time-window"
	JobReactivation  = "reactivation-sweep"
	JobWalletBilling = "wallet-billing"
)

// ReconciliationJobs are the passes the worker runs on a schedule.
type ReconciliationJobs struct {
	UsageSync     BatchJob
	TimeWindow    BatchJob
	Reactivation  BatchJob
	WalletBilling BatchJob
}

// RegisterReconciliationJobs registers every enabled pass with its interval.
// It returns the names of the registered jobs.
func (m *SchedulerManager) RegisterReconciliationJobs(cfg config.SchedulerConfig, jobs ReconciliationJobs) ([]string, error) {
	entries := []struct {
		name    string
		enabled bool
		job     BatchJob
		every   intervalSetting
	}{
		{JobUsageSync, cfg.UsageSyncEnabled, jobs.UsageSync, intervalSetting{"usage_sync_interval", cfg.UsageSyncInterval}},
		{JobTimeWindow, cfg.TimeWindowEnabled, jobs.TimeWindow, intervalSetting{"time_window_interval", cfg.TimeWindowInterval}},
		{JobReactivation, cfg.ReactivationEnabled, jobs.Reactivation, intervalSetting{"reactivation_interval", cfg.ReactivationInterval}},
		{JobWalletBilling, cfg.WalletBillingEnabled, jobs.WalletBilling, intervalSetting{"wallet_billing_interval", cfg.WalletBillingInterval}},
	}

	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	var registered []string
	for _, e := range entries {
		if !e.enabled {
			m.logger.Infow("scheduled job disabled", "job", e.name)
			continue
		}
		if e.job == nil {
			return registered, fmt.Errorf("job %s is enabled but not provided", e.name)
		}
		if err := e.every.validate(); err != nil {
			return registered, err
		}
		if err := m.RegisterIntervalJob(e.name, e.every.value, timeout, e.job, "reconciliation"); err != nil {
			return registered, fmt.Errorf("failed to register %s: %w", e.name, err)
		}
		registered = append(registered, e.name)
	}
	return registered, nil
}
