package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/infrastructure/persistence/mappers"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/db"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

type WalletTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.WalletTransactionMapper
	logger logger.Interface
}

func NewWalletTransactionRepository(db *gorm.DB, logger logger.Interface) reseller.WalletTransactionRepository {
	return &WalletTransactionRepositoryImpl{
		db:     db,
		mapper: mappers.NewWalletTransactionMapper(),
		logger: logger,
	}
}

// Create inserts the transaction. A duplicate reference yields a conflict error.
func (r *WalletTransactionRepositoryImpl) Create(ctx context.Context, tx *reseller.WalletTransaction) error {
	model := r.mapper.ToModel(tx)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("wallet transaction already recorded", tx.Reference())
		}
		r.logger.Errorw("failed to create wallet transaction", "reference", tx.Reference(), "error", err)
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}

	tx.SetID(model.ID)
	return nil
}

func (r *WalletTransactionRepositoryImpl) GetByReference(ctx context.Context, reference string) (*reseller.WalletTransaction, error) {
	var model models.WalletTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get wallet transaction", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get wallet transaction: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *WalletTransactionRepositoryImpl) MarkCompleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.WalletTransactionModel{}).
		Where("id = ? AND status = ?", id, string(reseller.WalletTxPending)).
		Updates(map[string]interface{}{
			"status":       string(reseller.WalletTxCompleted),
			"completed_at": at,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to complete wallet transaction", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to complete wallet transaction: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
