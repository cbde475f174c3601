package setting

import "errors"

var (
	// ErrSettingNotFound is returned when a setting is not found
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidSettingKey is returned for an empty or unrecognised key
	ErrInvalidSettingKey = errors.New("invalid setting key")

	// ErrInvalidValueType is returned when a value does not parse as its declared type
	ErrInvalidValueType = errors.New("invalid value type")
)
