package usecases

import (
	"context"
	"fmt"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/domain/setting"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/db"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

// TopUpWalletUseCase credits a verified gateway payment exactly once per
// reference and reactivates a wallet-suspended reseller it brings back above
// the threshold.
type TopUpWalletUseCase struct {
	walletRepo   reseller.WalletTransactionRepository
	resellerRepo reseller.ResellerRepository
	txManager    *db.TransactionManager
	reactivation *services.ReactivationService
	recorder     *services.AuditRecorder
	settings     setting.EnforcementProvider
	logger       logger.Interface
}

func NewTopUpWalletUseCase(
	walletRepo reseller.WalletTransactionRepository,
	resellerRepo reseller.ResellerRepository,
	txManager *db.TransactionManager,
	reactivation *services.ReactivationService,
	recorder *services.AuditRecorder,
	settings setting.EnforcementProvider,
	logger logger.Interface,
) *TopUpWalletUseCase {
	return &TopUpWalletUseCase{
		walletRepo:   walletRepo,
		resellerRepo: resellerRepo,
		txManager:    txManager,
		reactivation: reactivation,
		recorder:     recorder,
		settings:     settings,
		logger:       logger,
	}
}

func (uc *TopUpWalletUseCase) Execute(ctx context.Context, req dto.TopUpWalletRequest, actor reseller.Actor) (*dto.TopUpWalletResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	r, err := loadReseller(ctx, uc.resellerRepo, req.ResellerID)
	if err != nil {
		return nil, err
	}
	if r.Type() != vo.ResellerTypeWallet {
		return nil, apperrors.NewValidationError("reseller does not use a wallet")
	}

	txn, err := uc.transactionFor(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.TopUpWalletResponse{Reference: req.Reference}
	if txn.IsCompleted() {
		resp.AlreadyComplete = true
	} else {
		var balance int64
		err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			won, err := uc.walletRepo.MarkCompleted(ctx, txn.ID(), biztime.NowUTC())
			if err != nil || !won {
				return err
			}
			balance, err = uc.resellerRepo.AdjustWalletBalance(ctx, req.ResellerID, req.Amount)
			if err != nil {
				return err
			}
			resp.Credited = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to credit wallet: %w", err)
		}
		if resp.Credited {
			uc.logger.Infow("wallet credited",
				"reseller_id", req.ResellerID,
				"reference", req.Reference,
				"amount", req.Amount,
				"wallet_balance", balance,
			)
			if _, err := uc.recorder.Audit(ctx, vo.ActionWalletTopUp, vo.TargetReseller, req.ResellerID, "", actor,
				map[string]interface{}{
					"reference":      req.Reference,
					"amount":         req.Amount,
					"wallet_balance": balance,
				}); err != nil {
				uc.logger.Errorw("failed to record wallet top-up", "reseller_id", req.ResellerID, "error", err)
			}
		} else {
			resp.AlreadyComplete = true
		}
	}

	if r, err = loadReseller(ctx, uc.resellerRepo, req.ResellerID); err != nil {
		return nil, err
	}
	if r.Status() == vo.ResellerStatusSuspendedWallet {
		result, err := uc.reactivation.Reactivate(ctx, r, uc.settings.GetEnforcementSettings(ctx), actor)
		if err != nil {
			uc.logger.Errorw("failed to reactivate reseller after top-up", "reseller_id", r.ID(), "error", err)
		} else if result.Transitioned {
			resp.Reactivated = true
		} else if result.SkipReason != "" {
			uc.logger.Infow("reseller stays suspended after top-up",
				"reseller_id", r.ID(),
				"reason", result.SkipReason,
			)
		}
	}

	if r, err = loadReseller(ctx, uc.resellerRepo, req.ResellerID); err != nil {
		return nil, err
	}
	resp.Balance = r.WalletBalance()
	resp.ResellerStatus = r.Status().String()
	return resp, nil
}

// transactionFor returns the transaction for the reference, creating it as
// pending on first sight. A reference reused for another reseller or amount
// is rejected.
func (uc *TopUpWalletUseCase) transactionFor(ctx context.Context, req dto.TopUpWalletRequest) (*reseller.WalletTransaction, error) {
	existing, err := uc.walletRepo.GetByReference(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		txn, err := reseller.NewWalletTransaction(req.Reference, req.ResellerID, req.Amount)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		err = uc.walletRepo.Create(ctx, txn)
		if err == nil {
			return txn, nil
		}
		if !apperrors.IsConflictError(err) {
			return nil, err
		}
		if existing, err = uc.walletRepo.GetByReference(ctx, req.Reference); err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.NewConflictError("wallet transaction could not be stored")
		}
	}

	if existing.ResellerID() != req.ResellerID || existing.Amount() != req.Amount {
		return nil, apperrors.NewConflictError("reference already used for a different payment")
	}
	return existing, nil
}
