package models

import (
	"time"

	"panelsync/internal/shared/constants"
)

// PanelModel is one remote panel installation and its credentials.
type PanelModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:100"`
	PanelType string `gorm:"not null;size:20;index:idx_panel_type"`
	BaseURL   string `gorm:"not null;size:255"`
	Username  string `gorm:"size:100"`
	Password  string `gorm:"size:255"`
	APIKey    string `gorm:"size:255"`
	Enabled   bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PanelModel) TableName() string {
	return constants.TablePanels
}
