package setting

import (
	"strings"
	"testing"
)

// FuzzGetInt64Value tests GetInt64Value with random string inputs
func FuzzGetInt64Value(f *testing.F) {
	seeds := []string{
		"",
		"0",
		"1",
		"-1",
		"52428800",
		"9223372036854775807",           // MaxInt64
		"-9223372036854775808",          // MinInt64
		"99999999999999999999999999999", // Overflow
		"abc",
		"12.34",
		"  123  ",
		"0x1F",
		"1e10",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		s := &SystemSetting{value: input, valueType: ValueTypeInt}

		val, err := s.GetInt64Value()

		if strings.TrimSpace(input) == "" {
			if err != nil || val != 0 {
				t.Errorf("GetInt64Value(%q) = (%d, %v), expected (0, nil)", input, val, err)
			}
			return
		}

		if err == nil {
			s2 := &SystemSetting{value: input, valueType: ValueTypeInt}
			val2, err2 := s2.GetInt64Value()
			if err2 != nil || val != val2 {
				t.Errorf("GetInt64Value not consistent: first=%d, second=%d", val, val2)
			}
		}
	})
}

// FuzzGetBoolValue tests GetBoolValue with random string inputs
func FuzzGetBoolValue(f *testing.F) {
	seeds := []string{"", "true", "false", "TRUE", "1", "0", "t", "f", "yes", "on", "truee"}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		s := &SystemSetting{value: input, valueType: ValueTypeBool}

		val, err := s.GetBoolValue()

		if strings.TrimSpace(input) == "" {
			if err != nil || val {
				t.Errorf("GetBoolValue(%q) = (%t, %v), expected (false, nil)", input, val, err)
			}
		}
	})
}

// FuzzSetValue checks that SetValue only stores values that parse back.
func FuzzSetValue(f *testing.F) {
	f.Add("int", "42")
	f.Add("int", "4.2")
	f.Add("float", "2.5")
	f.Add("float", "abc")
	f.Add("bool", "true")
	f.Add("bool", "maybe")
	f.Add("string", "anything")

	f.Fuzz(func(t *testing.T, valueType, input string) {
		s, err := NewSystemSetting(CategoryEnforcement, "k", ValueType(valueType))
		if err != nil {
			return
		}

		if err := s.SetValue(input); err != nil {
			if s.Value() != "" || s.Version() != 1 {
				t.Errorf("failed SetValue(%q) modified the setting", input)
			}
			return
		}

		var parseErr error
		switch s.ValueType() {
		case ValueTypeInt:
			_, parseErr = s.GetInt64Value()
		case ValueTypeFloat:
			_, parseErr = s.GetFloatValue()
		case ValueTypeBool:
			_, parseErr = s.GetBoolValue()
		}
		if parseErr != nil {
			t.Errorf("stored value %q does not parse as %s: %v", s.Value(), s.ValueType(), parseErr)
		}
	})
}

// FuzzNewSystemSetting tests constructor validation
func FuzzNewSystemSetting(f *testing.F) {
	f.Add("enforcement", "config_grace_percent", "float")
	f.Add("", "key", "int")
	f.Add("enforcement", "", "int")
	f.Add("enforcement", "key", "json")

	f.Fuzz(func(t *testing.T, category, key, valueType string) {
		s, err := NewSystemSetting(category, key, ValueType(valueType))

		valid := category != "" && key != "" && isValidValueType(ValueType(valueType))
		if valid && err != nil {
			t.Errorf("NewSystemSetting(%q, %q, %q) unexpected error: %v", category, key, valueType, err)
		}
		if !valid && err == nil {
			t.Errorf("NewSystemSetting(%q, %q, %q) expected error", category, key, valueType)
		}
		if err == nil && s.Version() != 1 {
			t.Errorf("new setting version = %d, want 1", s.Version())
		}
	})
}
