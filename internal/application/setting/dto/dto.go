package dto

// EnforcementSettingResponse is one enforcement key with its effective value.
type EnforcementSettingResponse struct {
	Key       string `json:"key"`
	Value     any    `json:"value"`
	ValueType string `json:"value_type"`
	// Source is "database" when an override row exists, otherwise "config".
	Source string `json:"source"`
}

type EnforcementSettingsResponse struct {
	Category string                       `json:"category"`
	Settings []EnforcementSettingResponse `json:"settings"`
}

// UpdateEnforcementSettingsRequest carries raw string values keyed by setting
// key. An empty value removes the override.
type UpdateEnforcementSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
