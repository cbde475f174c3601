package models

import (
	"time"

	"panelsync/internal/shared/constants"
)

type WalletTransactionModel struct {
	ID          uint   `gorm:"primarykey"`
	Reference   string `gorm:"uniqueIndex;not null;size:191"`
	ResellerID  uint   `gorm:"not null;index"`
	Amount      int64  `gorm:"not null"`
	Status      string `gorm:"not null;size:20"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (WalletTransactionModel) TableName() string {
	return constants.TableWalletTransactions
}
