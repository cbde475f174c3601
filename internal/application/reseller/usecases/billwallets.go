package usecases

import (
	"context"
	"fmt"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/shared/logger"
)

// BillWalletsUseCase charges wallet resellers for traffic used since the
// last charge. The billed watermark only moves forward through a
// compare-and-set, so a delta is never charged twice.
type BillWalletsUseCase struct {
	resellerRepo reseller.ResellerRepository
	aggregator   *services.UsageAggregator
	suspension   *services.SuspensionService
	reactivation *services.ReactivationService
	settings     setting.EnforcementProvider
	logger       logger.Interface
}

func NewBillWalletsUseCase(
	resellerRepo reseller.ResellerRepository,
	aggregator *services.UsageAggregator,
	suspension *services.SuspensionService,
	reactivation *services.ReactivationService,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *BillWalletsUseCase {
	return &BillWalletsUseCase{
		resellerRepo: resellerRepo,
		aggregator:   aggregator,
		suspension:   suspension,
		reactivation: reactivation,
		settings:     settings,
		logger:       logger,
	}
}

func (uc *BillWalletsUseCase) Execute(ctx context.Context) (*dto.BillingReport, error) {
	settings := uc.settings.GetEnforcementSettings(ctx)
	report := &dto.BillingReport{}

	wallets, _, err := uc.resellerRepo.List(ctx, reseller.ResellerFilter{
		Types: []vo.ResellerType{vo.ResellerTypeWallet},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet resellers: %w", err)
	}

	for _, w := range wallets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := uc.bill(ctx, w.ID(), settings, report); err != nil {
			report.Failed++
			uc.logger.Errorw("failed to bill wallet reseller", "reseller_id", w.ID(), "error", err)
		}
	}

	if report.Billed > 0 || report.Suspended > 0 {
		uc.logger.Infow("wallet billing completed",
			"billed", report.Billed,
			"charged", report.Charged,
			"suspended", report.Suspended,
			"reactivated", report.Reactivated,
		)
	}
	return report, nil
}

func (uc *BillWalletsUseCase) bill(ctx context.Context, resellerID uint, settings reseller.EnforcementSettings, report *dto.BillingReport) error {
	r, err := uc.aggregator.Recompute(ctx, resellerID)
	if err != nil {
		return err
	}

	used := r.TrafficUsedBytes()
	billed := r.WalletBilledBytes()
	if used > billed {
		price := r.PricePerGB(settings.DefaultWalletPricePerGB)
		cost := reseller.WalletCost(used, price) - reseller.WalletCost(billed, price)

		charged, err := uc.resellerRepo.ChargeWallet(ctx, resellerID, billed, used, cost)
		if err != nil {
			return err
		}
		if charged {
			report.Billed++
			report.Charged += cost
			uc.logger.Debugw("wallet charged",
				"reseller_id", resellerID,
				"billed_bytes", used-billed,
				"price_per_gb", price,
				"cost", cost,
			)
		}

		if r, err = uc.resellerRepo.GetByID(ctx, resellerID); err != nil {
			return fmt.Errorf("failed to reload reseller: %w", err)
		}
		if r == nil {
			return fmt.Errorf("%w: id=%d", reseller.ErrResellerNotFound, resellerID)
		}
	}

	exhausted := r.IsWalletExhausted(settings.WalletSuspensionThreshold)
	switch {
	case r.Status() == vo.ResellerStatusActive && exhausted:
		result, err := uc.suspension.Suspend(ctx, r, vo.CauseWalletExhausted, services.SuspendOptions{Actor: reseller.SystemActor})
		if err != nil {
			return err
		}
		if result.Transitioned {
			report.Suspended++
			uc.logger.Infow("wallet reseller suspended",
				"reseller_id", resellerID,
				"wallet_balance", r.WalletBalance(),
				"threshold", settings.WalletSuspensionThreshold,
			)
		}
	case r.Status() == vo.ResellerStatusSuspendedWallet && !exhausted:
		result, err := uc.reactivation.Reactivate(ctx, r, settings, reseller.SystemActor)
		if err != nil {
			return err
		}
		if result.Transitioned {
			report.Reactivated++
		}
	}
	return nil
}
