package setting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"panelsync/internal/shared/biztime"
)

// ValueType defines how a stored value is parsed.
type ValueType string

const (
	ValueTypeString ValueType = "string"
	ValueTypeInt    ValueType = "int"
	ValueTypeFloat  ValueType = "float"
	ValueTypeBool   ValueType = "bool"
)

// CategoryEnforcement groups the policy overrides read by every enforcement pass.
const CategoryEnforcement = "enforcement"

// Keys in CategoryEnforcement.
const (
	KeyConfigGracePercent        = "config_grace_percent"
	KeyConfigGraceBytes          = "config_grace_bytes"
	KeyResellerGracePercent      = "reseller_grace_percent"
	KeyResellerGraceBytes        = "reseller_grace_bytes"
	KeyAllowConfigOverrun        = "allow_config_overrun"
	KeyExpiryGraceMinutes        = "expiry_grace_minutes"
	KeyWalletSuspensionThreshold = "wallet_suspension_threshold"
	KeyDefaultWalletPricePerGB   = "default_wallet_price_per_gb"
)

// EnforcementKeyTypes lists the recognised enforcement keys and their types.
var EnforcementKeyTypes = map[string]ValueType{
	KeyConfigGracePercent:        ValueTypeFloat,
	KeyConfigGraceBytes:          ValueTypeInt,
	KeyResellerGracePercent:      ValueTypeFloat,
	KeyResellerGraceBytes:        ValueTypeInt,
	KeyAllowConfigOverrun:        ValueTypeBool,
	KeyExpiryGraceMinutes:        ValueTypeInt,
	KeyWalletSuspensionThreshold: ValueTypeInt,
	KeyDefaultWalletPricePerGB:   ValueTypeInt,
}

// SystemSetting is one runtime override, stored as a string and parsed by type.
type SystemSetting struct {
	id        uint
	category  string
	key       string
	value     string
	valueType ValueType
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewSystemSetting creates an empty setting.
func NewSystemSetting(category, key string, valueType ValueType) (*SystemSetting, error) {
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	if key == "" {
		return nil, ErrInvalidSettingKey
	}
	if !isValidValueType(valueType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValueType, valueType)
	}

	now := biztime.NowUTC()
	return &SystemSetting{
		category:  category,
		key:       key,
		valueType: valueType,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSystemSetting rebuilds a setting from persistence.
func ReconstructSystemSetting(
	id uint,
	category, key, value string,
	valueType ValueType,
	version int,
	createdAt, updatedAt time.Time,
) *SystemSetting {
	return &SystemSetting{
		id:        id,
		category:  category,
		key:       key,
		value:     value,
		valueType: valueType,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *SystemSetting) ID() uint             { return s.id }
func (s *SystemSetting) Category() string     { return s.category }
func (s *SystemSetting) Key() string          { return s.key }
func (s *SystemSetting) Value() string        { return s.value }
func (s *SystemSetting) ValueType() ValueType { return s.valueType }
func (s *SystemSetting) Version() int         { return s.version }
func (s *SystemSetting) CreatedAt() time.Time { return s.createdAt }
func (s *SystemSetting) UpdatedAt() time.Time { return s.updatedAt }

func (s *SystemSetting) SetID(id uint) {
	s.id = id
}

func (s *SystemSetting) HasValue() bool {
	return strings.TrimSpace(s.value) != ""
}

func (s *SystemSetting) GetInt64Value() (int64, error) {
	if !s.HasValue() {
		return 0, nil
	}
	return strconv.ParseInt(strings.TrimSpace(s.value), 10, 64)
}

func (s *SystemSetting) GetFloatValue() (float64, error) {
	if !s.HasValue() {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s.value), 64)
}

func (s *SystemSetting) GetBoolValue() (bool, error) {
	if !s.HasValue() {
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s.value))
}

// SetValue validates raw against the value type and stores it.
func (s *SystemSetting) SetValue(raw string) error {
	raw = strings.TrimSpace(raw)
	var err error
	switch s.valueType {
	case ValueTypeInt:
		_, err = strconv.ParseInt(raw, 10, 64)
	case ValueTypeFloat:
		_, err = strconv.ParseFloat(raw, 64)
	case ValueTypeBool:
		_, err = strconv.ParseBool(raw)
	}
	if err != nil {
		return fmt.Errorf("%w: %s value %q", ErrInvalidValueType, s.valueType, raw)
	}

	s.value = raw
	s.version++
	s.updatedAt = biztime.NowUTC()
	return nil
}

func isValidValueType(vt ValueType) bool {
	switch vt {
	case ValueTypeString, ValueTypeInt, ValueTypeFloat, ValueTypeBool:
		return true
	default:
		return false
	}
}
