package services

import (
	"testing"
	"time"

	"panelsync/internal/application/reseller/testutil"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/logger"
)

type testEnv struct {
	store        *testutil.Store
	retry        *RetryExecutor
	recorder     *AuditRecorder
	state        *ConfigStateService
	aggregator   *UsageAggregator
	suspension   *SuspensionService
	reactivation *ReactivationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore(t)
	log := logger.NewNopLogger()

	retry := NewRetryExecutor(3, []time.Duration{0, 0}, log)
	recorder := NewAuditRecorder(store.Events, store.Audits, log)
	resolver := NewPanelResolver(store.Panels, store.Factory)
	state := NewConfigStateService(store.Configs, resolver, retry, recorder, log)
	throttle := NewThrottleFactory(0)

	return &testEnv{
		store:        store,
		retry:        retry,
		recorder:     recorder,
		state:        state,
		aggregator:   NewUsageAggregator(store.Resellers, store.Configs, log),
		suspension:   NewSuspensionService(store.Resellers, store.Configs, state, recorder, throttle, log),
		reactivation: NewReactivationService(store.Resellers, store.Configs, state, recorder, throttle, log),
	}
}

func metaInt(meta map[string]interface{}, key string) int64 {
	v, _ := panel.AsInt64(meta[key])
	return v
}

func settings() reseller.EnforcementSettings {
	return reseller.DefaultEnforcementSettings()
}
