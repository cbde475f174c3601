package services

import (
	"context"
	"fmt"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/logger"
)

// AuditRecorder appends config events and audit log entries. A status
// transition whose (type, reason) matches the latest transition already
// recorded for the same target is dropped.
type AuditRecorder struct {
	eventRepo reseller.ConfigEventRepository
	auditRepo reseller.AuditLogRepository
	logger    logger.Interface
}

func NewAuditRecorder(
	eventRepo reseller.ConfigEventRepository,
	auditRepo reseller.AuditLogRepository,
	logger logger.Interface,
) *AuditRecorder {
	return &AuditRecorder{
		eventRepo: eventRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RecordEvent stores the event and reports whether it was written.
func (r *AuditRecorder) RecordEvent(ctx context.Context, event *reseller.ConfigEvent) (bool, error) {
	if event.Type().IsStatusTransition() {
		latest, err := r.eventRepo.LatestByConfig(ctx, event.ConfigID(), vo.StatusTransitionEvents)
		if err != nil {
			return false, fmt.Errorf("failed to load latest event: %w", err)
		}
		if latest != nil && latest.Type() == event.Type() && latest.Reason() == event.Reason() {
			r.logger.Debugw("duplicate config event suppressed",
				"config_id", event.ConfigID(),
				"event_type", event.Type().String(),
				"reason", event.Reason(),
			)
			return false, nil
		}
	}

	if err := r.eventRepo.Create(ctx, event); err != nil {
		return false, fmt.Errorf("failed to create config event: %w", err)
	}
	return true, nil
}

// Event builds and records a config event in one step.
func (r *AuditRecorder) Event(
	ctx context.Context,
	configID uint,
	eventType vo.EventType,
	reason string,
	telemetry *reseller.RemoteTelemetry,
	extra map[string]interface{},
) (bool, error) {
	event, err := reseller.NewConfigEvent(configID, eventType, reason, telemetry, extra)
	if err != nil {
		return false, err
	}
	return r.RecordEvent(ctx, event)
}

// RecordAudit stores the entry and reports whether it was written.
func (r *AuditRecorder) RecordAudit(ctx context.Context, entry *reseller.AuditLog) (bool, error) {
	if vo.IsTransitionAction(entry.Action()) {
		latest, err := r.auditRepo.LatestForTarget(ctx, entry.TargetType(), entry.TargetID(), vo.TransitionActions)
		if err != nil {
			return false, fmt.Errorf("failed to load latest audit log: %w", err)
		}
		if latest != nil && latest.Action() == entry.Action() && latest.Reason() == entry.Reason() {
			r.logger.Debugw("duplicate audit log suppressed",
				"target_type", entry.TargetType(),
				"target_id", entry.TargetID(),
				"action", entry.Action(),
				"reason", entry.Reason(),
			)
			return false, nil
		}
	}

	if err := r.auditRepo.Create(ctx, entry); err != nil {
		return false, fmt.Errorf("failed to create audit log: %w", err)
	}
	return true, nil
}

// Audit builds and records an audit entry in one step.
func (r *AuditRecorder) Audit(
	ctx context.Context,
	action, targetType string,
	targetID uint,
	reason string,
	actor reseller.Actor,
	meta map[string]interface{},
) (bool, error) {
	entry, err := reseller.NewAuditLog(action, targetType, targetID, reason, actor, meta)
	if err != nil {
		return false, err
	}
	return r.RecordAudit(ctx, entry)
}
