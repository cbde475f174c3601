package panel

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var (
	usageKeys      = []string{"used_traffic", "total_traffic_bytes", "data_used"}
	splitUsageKeys = [][2]string{{"upload_bytes", "download_bytes"}, {"up", "down"}}
	envelopeKeys   = []string{"userInfo", "data", "obj", "user"}
)

// NormalizeUsedBytes extracts a single byte counter from a vendor payload.
// Direct counters win over split upload/download pairs, and top-level fields
// win over the same fields nested under a response envelope.
func NormalizeUsedBytes(payload map[string]interface{}) (int64, bool) {
	if payload == nil {
		return 0, false
	}

	for _, key := range usageKeys {
		if v, ok := AsInt64(payload[key]); ok {
			return v, true
		}
	}
	for _, pair := range splitUsageKeys {
		up, upOK := AsInt64(payload[pair[0]])
		down, downOK := AsInt64(payload[pair[1]])
		if upOK || downOK {
			return up + down, true
		}
	}
	for _, key := range envelopeKeys {
		if nested, ok := payload[key].(map[string]interface{}); ok {
			if v, found := NormalizeUsedBytes(nested); found {
				return v, true
			}
		}
	}
	return 0, false
}

// NormalizeStatus returns the vendor status string, translating boolean
// enable flags into active/disabled.
func NormalizeStatus(payload map[string]interface{}) string {
	if payload == nil {
		return ""
	}
	if s, ok := payload["status"].(string); ok && s != "" {
		return strings.ToLower(s)
	}
	for _, key := range []string{"enable", "enabled", "is_active"} {
		if b, ok := payload[key].(bool); ok {
			if b {
				return "active"
			}
			return "disabled"
		}
	}
	for _, key := range envelopeKeys {
		if nested, ok := payload[key].(map[string]interface{}); ok {
			if s := NormalizeStatus(nested); s != "" {
				return s
			}
		}
	}
	return ""
}

// AsInt64 coerces the numeric encodings seen in decoded JSON.
func AsInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
