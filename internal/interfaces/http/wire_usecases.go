package http

import (
	"context"

	"panelsync/internal/application/reseller/dto"
	resellerUsecases "panelsync/internal/application/reseller/usecases"
	settingUsecases "panelsync/internal/application/setting/usecases"
	"panelsync/internal/infrastructure/scheduler"
)

// UseCases holds every use case. The CLI drives them directly.
type UseCases struct {
	SyncUsage      *resellerUsecases.SyncUsageUseCase
	TimeWindow     *resellerUsecases.EnforceTimeWindowUseCase
	Reactivation   *resellerUsecases.ReactivateResellersUseCase
	BillWallets    *resellerUsecases.BillWalletsUseCase
	TopUpWallet    *resellerUsecases.TopUpWalletUseCase
	ManualSync     *resellerUsecases.ManualSyncUseCase
	ResetUsage     *resellerUsecases.ResetConfigUsageUseCase
	SetStatus      *resellerUsecases.SetConfigStatusUseCase
	UpdateLimits   *resellerUsecases.UpdateConfigLimitsUseCase
	DeleteConfig   *resellerUsecases.DeleteConfigUseCase
	AdjustQuota    *resellerUsecases.AdjustResellerQuotaUseCase
	Queries        *resellerUsecases.ResellerQueries
	Provisioning   *resellerUsecases.ProvisioningUseCase
	GetSettings    *settingUsecases.GetEnforcementSettingsUseCase
	UpdateSettings *settingUsecases.UpdateEnforcementSettingsUseCase
}

func (c *Container) initUseCases() {
	log := c.log
	repos := c.repos
	svcs := c.svcs

	syncUsage := resellerUsecases.NewSyncUsageUseCase(
		repos.configRepo, repos.resellerRepo, svcs.resolver, svcs.retry, svcs.state,
		svcs.aggregator, svcs.suspension, svcs.reactivation, svcs.settings, log,
	)

	c.ucs = &UseCases{
		SyncUsage:    syncUsage,
		TimeWindow:   resellerUsecases.NewEnforceTimeWindowUseCase(repos.resellerRepo, svcs.suspension, svcs.reactivation, svcs.settings, log),
		Reactivation: resellerUsecases.NewReactivateResellersUseCase(repos.resellerRepo, svcs.aggregator, svcs.suspension, svcs.reactivation, svcs.settings, log),
		BillWallets:  resellerUsecases.NewBillWalletsUseCase(repos.resellerRepo, svcs.aggregator, svcs.suspension, svcs.reactivation, svcs.settings, log),
		TopUpWallet: resellerUsecases.NewTopUpWalletUseCase(
			repos.walletRepo, repos.resellerRepo, svcs.txManager, svcs.reactivation, svcs.recorder, svcs.settings, log,
		),
		ManualSync:     resellerUsecases.NewManualSyncUseCase(repos.configRepo, repos.resellerRepo, svcs.resolver, syncUsage, log),
		ResetUsage:     resellerUsecases.NewResetConfigUsageUseCase(repos.configRepo, svcs.state, log),
		SetStatus:      resellerUsecases.NewSetConfigStatusUseCase(repos.configRepo, svcs.state, log),
		UpdateLimits:   resellerUsecases.NewUpdateConfigLimitsUseCase(repos.configRepo, svcs.state, log),
		DeleteConfig:   resellerUsecases.NewDeleteConfigUseCase(repos.configRepo, svcs.state, log),
		AdjustQuota:    resellerUsecases.NewAdjustResellerQuotaUseCase(repos.resellerRepo, svcs.aggregator, svcs.reactivation, svcs.recorder, svcs.settings, log),
		Queries:        resellerUsecases.NewResellerQueries(repos.configRepo, repos.resellerRepo, repos.eventRepo, repos.auditRepo),
		Provisioning:   resellerUsecases.NewProvisioningUseCase(repos.panelRepo, repos.resellerRepo, repos.configRepo, log),
		GetSettings:    settingUsecases.NewGetEnforcementSettingsUseCase(svcs.settings),
		UpdateSettings: settingUsecases.NewUpdateEnforcementSettingsUseCase(repos.settingRepo, log),
	}
}

// reconciliationJobs adapts the scheduled passes to scheduler.BatchJob.
func (c *Container) reconciliationJobs() scheduler.ReconciliationJobs {
	ucs := c.ucs
	return scheduler.ReconciliationJobs{
		UsageSync: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			report, err := ucs.SyncUsage.Execute(ctx, dto.SyncUsageRequest{})
			if err != nil {
				return 0, err
			}
			return report.Changed(), nil
		}),
		TimeWindow: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			report, err := ucs.TimeWindow.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return report.Changed(), nil
		}),
		Reactivation: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			report, err := ucs.Reactivation.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return report.Changed(), nil
		}),
		WalletBilling: scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
			report, err := ucs.BillWallets.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return report.Changed(), nil
		}),
	}
}
