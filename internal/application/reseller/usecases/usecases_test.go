package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/services"
	"panelsync/internal/application/reseller/testutil"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/db"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

type testEnv struct {
	store    *testutil.Store
	settings *testutil.StaticSettings

	sync         *SyncUsageUseCase
	window       *EnforceTimeWindowUseCase
	sweep        *ReactivateResellersUseCase
	billing      *BillWalletsUseCase
	topUp        *TopUpWalletUseCase
	manualSync   *ManualSyncUseCase
	reset        *ResetConfigUsageUseCase
	status       *SetConfigStatusUseCase
	limits       *UpdateConfigLimitsUseCase
	deleteConfig *DeleteConfigUseCase
	quota        *AdjustResellerQuotaUseCase
	queries      *ResellerQueries
	provisioning *ProvisioningUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore(t)
	settings := testutil.NewStaticSettings()
	log := logger.NewNopLogger()

	retry := services.NewRetryExecutor(3, []time.Duration{0, 0}, log)
	recorder := services.NewAuditRecorder(store.Events, store.Audits, log)
	resolver := services.NewPanelResolver(store.Panels, store.Factory)
	state := services.NewConfigStateService(store.Configs, resolver, retry, recorder, log)
	throttle := services.NewThrottleFactory(0)
	aggregator := services.NewUsageAggregator(store.Resellers, store.Configs, log)
	suspension := services.NewSuspensionService(store.Resellers, store.Configs, state, recorder, throttle, log)
	reactivation := services.NewReactivationService(store.Resellers, store.Configs, state, recorder, throttle, log)

	sync := NewSyncUsageUseCase(store.Configs, store.Resellers, resolver, retry, state, aggregator, suspension, reactivation, settings, log)

	return &testEnv{
		store:        store,
		settings:     settings,
		sync:         sync,
		window:       NewEnforceTimeWindowUseCase(store.Resellers, suspension, reactivation, settings, log),
		sweep:        NewReactivateResellersUseCase(store.Resellers, aggregator, suspension, reactivation, settings, log),
		billing:      NewBillWalletsUseCase(store.Resellers, aggregator, suspension, reactivation, settings, log),
		topUp:        NewTopUpWalletUseCase(store.Wallets, store.Resellers, db.NewTransactionManager(store.DB), reactivation, recorder, settings, log),
		manualSync:   NewManualSyncUseCase(store.Configs, store.Resellers, resolver, sync, log),
		reset:        NewResetConfigUsageUseCase(store.Configs, state, log),
		status:       NewSetConfigStatusUseCase(store.Configs, state, log),
		limits:       NewUpdateConfigLimitsUseCase(store.Configs, state, log),
		deleteConfig: NewDeleteConfigUseCase(store.Configs, state, log),
		quota:        NewAdjustResellerQuotaUseCase(store.Resellers, aggregator, reactivation, recorder, settings, log),
		queries:      NewResellerQueries(store.Configs, store.Resellers, store.Events, store.Audits),
		provisioning: NewProvisioningUseCase(store.Panels, store.Resellers, store.Configs, log),
	}
}

// createExpiringConfig stores a config that expires on the given day.
func (e *testEnv) createExpiringConfig(t *testing.T, r *reseller.Reseller, p *panel.Panel, remoteID string, expiresAt time.Time) *reseller.Config {
	t.Helper()
	c, err := reseller.NewConfig(r.ID(), p.ID(), p.Type(), remoteID, 0, &expiresAt)
	require.NoError(t, err)
	require.NoError(t, e.store.Configs.Create(context.Background(), c))
	e.store.Factory.Client(p.ID()).SetUser(remoteID, 0)
	return c
}

func admin() reseller.Actor {
	return reseller.Actor{ID: 7, Type: "admin"}
}

func errorType(err error) apperrors.ErrorType {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Type
	}
	return ""
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
