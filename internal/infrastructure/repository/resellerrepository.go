package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/persistence/mappers"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/db"
	"panelsync/internal/shared/logger"
)

type ResellerRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ResellerMapper
	logger logger.Interface
}

func NewResellerRepository(db *gorm.DB, logger logger.Interface) reseller.ResellerRepository {
	return &ResellerRepositoryImpl{
		db:     db,
		mapper: mappers.NewResellerMapper(),
		logger: logger,
	}
}

func (r *ResellerRepositoryImpl) Create(ctx context.Context, entity *reseller.Reseller) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map reseller entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create reseller", "name", entity.Name(), "error", err)
		return fmt.Errorf("failed to create reseller: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set reseller ID: %w", err)
	}
	return nil
}

func (r *ResellerRepositoryImpl) GetByID(ctx context.Context, id uint) (*reseller.Reseller, error) {
	var model models.ResellerModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get reseller by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get reseller: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ResellerRepositoryImpl) List(ctx context.Context, filter reseller.ResellerFilter) ([]*reseller.Reseller, int64, error) {
	var list []*models.ResellerModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.ResellerModel{})
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}

	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count resellers", "error", err)
		return nil, 0, fmt.Errorf("failed to count resellers: %w", err)
	}

	query = query.Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Scopes(db.Paginate(filter.Page, filter.PageSize))
	}
	if err := query.Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list resellers", "error", err)
		return nil, 0, fmt.Errorf("failed to list resellers: %w", err)
	}

	entities, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map resellers: %w", err)
	}
	return entities, total, nil
}

func (r *ResellerRepositoryImpl) UpdateTrafficUsed(ctx context.Context, id uint, usedBytes int64) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ResellerModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"traffic_used_bytes": usedBytes,
			"updated_at":         biztime.NowUTC(),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update reseller usage", "id", id, "error", err)
		return fmt.Errorf("failed to update reseller usage: %w", err)
	}
	return nil
}

func (r *ResellerRepositoryImpl) CompareAndSetStatus(ctx context.Context, id uint, from []vo.ResellerStatus, to vo.ResellerStatus) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ResellerModel{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to transition reseller status", "id", id, "to", to, "error", result.Error)
		return false, fmt.Errorf("failed to transition reseller status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ResellerRepositoryImpl) UpdateQuota(ctx context.Context, id uint, trafficTotalBytes int64, windowEndsAt *time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ResellerModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"traffic_total_bytes": trafficTotalBytes,
			"window_ends_at":      windowEndsAt,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update reseller quota", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update reseller quota: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return reseller.ErrResellerNotFound
	}
	return nil
}

func (r *ResellerRepositoryImpl) AdjustWalletBalance(ctx context.Context, id uint, delta int64) (int64, error) {
	var balance int64
	err := db.NewTransactionManager(r.db).RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		result := tx.Model(&models.ResellerModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"wallet_balance": gorm.Expr("wallet_balance + ?", delta),
				"updated_at":     biztime.NowUTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return reseller.ErrResellerNotFound
		}
		return tx.Model(&models.ResellerModel{}).
			Select("wallet_balance").
			Where("id = ?", id).
			Row().Scan(&balance)
	})
	if err != nil {
		if errors.Is(err, reseller.ErrResellerNotFound) {
			return 0, err
		}
		r.logger.Errorw("failed to adjust wallet balance", "id", id, "delta", delta, "error", err)
		return 0, fmt.Errorf("failed to adjust wallet balance: %w", err)
	}
	return balance, nil
}

func (r *ResellerRepositoryImpl) ChargeWallet(ctx context.Context, id uint, fromBilled, toBilled, cost int64) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ResellerModel{}).
		Where("id = ? AND wallet_billed_bytes = ?", id, fromBilled).
		Updates(map[string]interface{}{
			"wallet_balance":      gorm.Expr("wallet_balance - ?", cost),
			"wallet_billed_bytes": toBilled,
			"updated_at":          biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to charge wallet", "id", id, "cost", cost, "error", result.Error)
		return false, fmt.Errorf("failed to charge wallet: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
