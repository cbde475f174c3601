package valueobjects

type EventType string

const (
	EventAutoDisabled       EventType = "auto_disabled"
	EventAutoEnabled        EventType = "auto_enabled"
	EventManualDisabled     EventType = "manual_disabled"
	EventManualEnabled      EventType = "manual_enabled"
	EventUsageReset         EventType = "usage_reset"
	EventEdited             EventType = "edited"
	EventDeleted            EventType = "deleted"
	EventAuditStatusChanged EventType = "audit_status_changed"
)

func (t EventType) String() string {
	return string(t)
}

// IsStatusTransition reports whether the event records an enable/disable.
// Only these take part in duplicate suppression.
func (t EventType) IsStatusTransition() bool {
	switch t {
	case EventAutoDisabled, EventAutoEnabled, EventManualDisabled, EventManualEnabled, EventAuditStatusChanged:
		return true
	}
	return false
}

var StatusTransitionEvents = []EventType{
	EventAutoDisabled,
	EventAutoEnabled,
	EventManualDisabled,
	EventManualEnabled,
	EventAuditStatusChanged,
}
