package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"panelsync/internal/shared/constants"
)

// ResellerConfigModel stores one provisioned panel account. Deleted configs
// stay in the table so their usage keeps counting toward the reseller.
type ResellerConfigModel struct {
	ID                uint   `gorm:"primarykey"`
	ResellerID        uint   `gorm:"not null;index:idx_config_reseller_status,priority:1"`
	PanelID           uint   `gorm:"not null;index:idx_config_panel"`
	PanelType         string `gorm:"not null;size:20"`
	PanelUserID       string `gorm:"not null;size:191"`
	Status            string `gorm:"not null;size:20;index:idx_config_reseller_status,priority:2"`
	TrafficLimitBytes int64  `gorm:"not null;default:0"`
	UsageBytes        int64  `gorm:"not null;default:0"`
	ExpiresAt         *time.Time
	DisabledAt        *time.Time
	Meta              datatypes.JSON
	Version           int `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (ResellerConfigModel) TableName() string {
	return constants.TableResellerConfigs
}

func (c *ResellerConfigModel) BeforeCreate(tx *gorm.DB) error {
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}
