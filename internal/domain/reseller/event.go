package reseller

import (
	"fmt"
	"time"

	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
)

// RemoteTelemetry describes the remote call behind a transition.
type RemoteTelemetry struct {
	Success   bool
	Attempts  int
	LastError string
	PanelID   uint
	PanelType string
}

// ToMap renders the telemetry with the keys stored on events.
func (t RemoteTelemetry) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"remote_success":  t.Success,
		"attempts":        t.Attempts,
		"panel_id":        t.PanelID,
		"panel_type_used": t.PanelType,
	}
	if t.LastError != "" {
		m["last_error"] = t.LastError
	}
	return m
}

// ConfigEvent is an immutable fact about one config.
type ConfigEvent struct {
	id        uint
	configID  uint
	eventType vo.EventType
	meta      map[string]interface{}
	createdAt time.Time
}

// NewConfigEvent builds an event. telemetry may be nil for local-only events.
func NewConfigEvent(
	configID uint,
	eventType vo.EventType,
	reason string,
	telemetry *RemoteTelemetry,
	extra map[string]interface{},
) (*ConfigEvent, error) {
	if configID == 0 {
		return nil, fmt.Errorf("config ID is required")
	}

	meta := make(map[string]interface{}, len(extra)+6)
	for k, v := range extra {
		meta[k] = v
	}
	if telemetry != nil {
		for k, v := range telemetry.ToMap() {
			meta[k] = v
		}
	}
	if reason != "" {
		meta["reason"] = reason
	}

	return &ConfigEvent{
		configID:  configID,
		eventType: eventType,
		meta:      meta,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructConfigEvent rebuilds an event from persistence.
func ReconstructConfigEvent(id, configID uint, eventType vo.EventType, meta map[string]interface{}, createdAt time.Time) *ConfigEvent {
	if meta == nil {
		meta = make(map[string]interface{})
	}
	return &ConfigEvent{
		id:        id,
		configID:  configID,
		eventType: eventType,
		meta:      meta,
		createdAt: createdAt,
	}
}

func (e *ConfigEvent) ID() uint                     { return e.id }
func (e *ConfigEvent) ConfigID() uint               { return e.configID }
func (e *ConfigEvent) Type() vo.EventType           { return e.eventType }
func (e *ConfigEvent) Meta() map[string]interface{} { return e.meta }
func (e *ConfigEvent) CreatedAt() time.Time         { return e.createdAt }

// Reason returns meta.reason.
func (e *ConfigEvent) Reason() string {
	reason, _ := e.meta["reason"].(string)
	return reason
}

// SetID sets the event ID after persistence.
func (e *ConfigEvent) SetID(id uint) {
	e.id = id
}
