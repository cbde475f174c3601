package reseller

import (
	"fmt"
	"time"

	"panelsync/internal/shared/biztime"
)

// Actor identifies who triggered an action. The zero Actor is the system.
type Actor struct {
	ID   uint
	Type string
}

// SystemActor is used by scheduled jobs.
var SystemActor = Actor{}

func (a Actor) IsSystem() bool {
	return a.ID == 0
}

// AuditLog is an immutable system-wide fact. Reseller and config entries
// written by one cascade share a correlation_id in meta.
type AuditLog struct {
	id         uint
	action     string
	targetType string
	targetID   uint
	reason     string
	actorID    *uint
	actorType  *string
	meta       map[string]interface{}
	createdAt  time.Time
}

// NewAuditLog builds an audit entry.
func NewAuditLog(action, targetType string, targetID uint, reason string, actor Actor, meta map[string]interface{}) (*AuditLog, error) {
	if action == "" {
		return nil, fmt.Errorf("audit action is required")
	}
	if targetType == "" || targetID == 0 {
		return nil, fmt.Errorf("audit target is required")
	}
	if meta == nil {
		meta = make(map[string]interface{})
	}

	log := &AuditLog{
		action:     action,
		targetType: targetType,
		targetID:   targetID,
		reason:     reason,
		meta:       meta,
		createdAt:  biztime.NowUTC(),
	}
	if !actor.IsSystem() {
		id, actorType := actor.ID, actor.Type
		log.actorID = &id
		log.actorType = &actorType
	}
	return log, nil
}

// ReconstructAuditLog rebuilds an audit entry from persistence.
func ReconstructAuditLog(
	id uint,
	action, targetType string,
	targetID uint,
	reason string,
	actorID *uint,
	actorType *string,
	meta map[string]interface{},
	createdAt time.Time,
) *AuditLog {
	if meta == nil {
		meta = make(map[string]interface{})
	}
	return &AuditLog{
		id:         id,
		action:     action,
		targetType: targetType,
		targetID:   targetID,
		reason:     reason,
		actorID:    actorID,
		actorType:  actorType,
		meta:       meta,
		createdAt:  createdAt,
	}
}

func (a *AuditLog) ID() uint                     { return a.id }
func (a *AuditLog) Action() string               { return a.action }
func (a *AuditLog) TargetType() string           { return a.targetType }
func (a *AuditLog) TargetID() uint               { return a.targetID }
func (a *AuditLog) Reason() string               { return a.reason }
func (a *AuditLog) ActorID() *uint               { return a.actorID }
func (a *AuditLog) ActorType() *string           { return a.actorType }
func (a *AuditLog) Meta() map[string]interface{} { return a.meta }
func (a *AuditLog) CreatedAt() time.Time         { return a.createdAt }

// SetID sets the audit log ID after persistence.
func (a *AuditLog) SetID(id uint) {
	a.id = id
}
