package models

import (
	"time"

	"gorm.io/datatypes"

	"panelsync/internal/shared/constants"
)

// ConfigEventModel is append-only.
type ConfigEventModel struct {
	ID        uint   `gorm:"primarykey"`
	ConfigID  uint   `gorm:"not null;index:idx_event_config_created,priority:1"`
	EventType string `gorm:"column:type;not null;size:40"`
	Meta      datatypes.JSON
	CreatedAt time.Time `gorm:"index:idx_event_config_created,priority:2"`
}

func (ConfigEventModel) TableName() string {
	return constants.TableConfigEvents
}
