package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"panelsync/internal/shared/constants"
)

// ResellerModel stores a reseller and its cached usage aggregate.
type ResellerModel struct {
	ID                uint   `gorm:"primarykey"`
	Name              string `gorm:"not null;size:100"`
	Type              string `gorm:"not null;size:20;default:traffic"`
	Status            string `gorm:"not null;size:20;index:idx_reseller_status"`
	TrafficTotalBytes int64  `gorm:"not null;default:0"`
	TrafficUsedBytes  int64  `gorm:"not null;default:0"`
	WindowStartsAt    *time.Time
	WindowEndsAt      *time.Time `gorm:"index:idx_reseller_window_end"`
	WalletBalance     int64      `gorm:"not null;default:0"`
	WalletPricePerGB  int64      `gorm:"column:wallet_price_per_gb;not null;default:0"`
	WalletBilledBytes int64      `gorm:"not null;default:0"`
	AllowedNodeIDs    datatypes.JSON
	Version           int `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ResellerModel) TableName() string {
	return constants.TableResellers
}

func (r *ResellerModel) BeforeCreate(tx *gorm.DB) error {
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}
