package mappers

import (
	"panelsync/internal/domain/reseller"
	"panelsync/internal/infrastructure/persistence/models"
)

type WalletTransactionMapper interface {
	ToEntity(model *models.WalletTransactionModel) *reseller.WalletTransaction
	ToModel(entity *reseller.WalletTransaction) *models.WalletTransactionModel
}

type WalletTransactionMapperImpl struct{}

func NewWalletTransactionMapper() WalletTransactionMapper {
	return &WalletTransactionMapperImpl{}
}

func (m *WalletTransactionMapperImpl) ToEntity(model *models.WalletTransactionModel) *reseller.WalletTransaction {
	if model == nil {
		return nil
	}
	return reseller.ReconstructWalletTransaction(
		model.ID,
		model.Reference,
		model.ResellerID,
		model.Amount,
		reseller.WalletTransactionStatus(model.Status),
		model.CreatedAt,
		model.CompletedAt,
	)
}

func (m *WalletTransactionMapperImpl) ToModel(entity *reseller.WalletTransaction) *models.WalletTransactionModel {
	if entity == nil {
		return nil
	}
	return &models.WalletTransactionModel{
		ID:          entity.ID(),
		Reference:   entity.Reference(),
		ResellerID:  entity.ResellerID(),
		Amount:      entity.Amount(),
		Status:      string(entity.Status()),
		CreatedAt:   entity.CreatedAt(),
		CompletedAt: entity.CompletedAt(),
	}
}
