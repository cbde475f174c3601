package models

import (
	"time"

	"gorm.io/datatypes"

	"panelsync/internal/shared/constants"
)

// AuditLogModel is append-only.
type AuditLogModel struct {
	ID         uint    `gorm:"primarykey"`
	Action     string  `gorm:"not null;size:50;index:idx_audit_action"`
	TargetType string  `gorm:"not null;size:30;index:idx_audit_target,priority:1"`
	TargetID   uint    `gorm:"not null;index:idx_audit_target,priority:2"`
	Reason     string  `gorm:"size:100"`
	ActorID    *uint   `gorm:"index"`
	ActorType  *string `gorm:"size:20"`
	Meta       datatypes.JSON
	CreatedAt  time.Time `gorm:"index"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
