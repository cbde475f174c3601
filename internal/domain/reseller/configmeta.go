package reseller

import (
	"encoding/json"
	"strings"
	"time"

	"panelsync/internal/domain/panel"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
)

// Persisted meta keys. Markers are translated to DisableCause on load and
// back on save; nothing outside this file reads them.
const (
	metaSettledUsageBytes = "settled_usage_bytes"
	metaLastResetAt       = "last_reset_at"

	metaDisabledByResellerSuspension       = "disabled_by_reseller_suspension"
	metaDisabledByResellerSuspensionReason = "disabled_by_reseller_suspension_reason"
	metaSuspendedByTimeWindow              = "suspended_by_time_window"
	metaDisabledByWalletSuspension         = "disabled_by_wallet_suspension"
	metaDisabledByResellerID               = "disabled_by_reseller_id"

	// Eylandoo mirrors of the remote usage counters.
	metaEylandooUsedTraffic = "used_traffic"
	metaEylandooDataUsed    = "data_used"
)

var markerKeys = []string{
	metaDisabledByResellerSuspension,
	metaDisabledByResellerSuspensionReason,
	metaSuspendedByTimeWindow,
	metaDisabledByWalletSuspension,
	metaDisabledByResellerID,
}

// DisableCause records why a config was disabled by a reseller-level cascade.
type DisableCause struct {
	Kind       vo.CauseKind
	Reason     string
	ResellerID uint
}

// NoCause is the zero cause.
func NoCause() DisableCause {
	return DisableCause{Kind: vo.CauseNone}
}

// NewDisableCause builds a cause with the default reason for kind.
func NewDisableCause(kind vo.CauseKind, resellerID uint) DisableCause {
	return DisableCause{Kind: kind, Reason: kind.DefaultReason(), ResellerID: resellerID}
}

func (c DisableCause) IsResellerAttributable() bool {
	return c.Kind.IsResellerAttributable()
}

// ConfigMeta is the typed view of a config's meta bag. Keys it does not model
// are kept in Extra and written back untouched.
type ConfigMeta struct {
	SettledUsageBytes int64
	LastResetAt       *time.Time
	Cause             DisableCause
	Extra             map[string]interface{}
}

// ParseConfigMeta decodes the persisted key/value bag.
func ParseConfigMeta(raw map[string]interface{}) ConfigMeta {
	meta := ConfigMeta{
		Cause: NoCause(),
		Extra: make(map[string]interface{}),
	}

	for k, v := range raw {
		meta.Extra[k] = v
	}

	if v, ok := panel.AsInt64(meta.Extra[metaSettledUsageBytes]); ok {
		meta.SettledUsageBytes = v
	}
	delete(meta.Extra, metaSettledUsageBytes)

	if s, ok := meta.Extra[metaLastResetAt].(string); ok {
		if t, err := biztime.ParseMetadataTime(s); err == nil {
			meta.LastResetAt = &t
		}
	}
	delete(meta.Extra, metaLastResetAt)

	meta.Cause = parseCause(meta.Extra)
	for _, k := range markerKeys {
		delete(meta.Extra, k)
	}

	return meta
}

func parseCause(raw map[string]interface{}) DisableCause {
	reason, _ := raw[metaDisabledByResellerSuspensionReason].(string)
	resellerID, _ := panel.AsInt64(raw[metaDisabledByResellerID])

	cause := DisableCause{Reason: reason, ResellerID: uint(resellerID)}
	switch {
	case IsTruthy(raw[metaDisabledByWalletSuspension]):
		cause.Kind = vo.CauseWalletExhausted
	case IsTruthy(raw[metaSuspendedByTimeWindow]):
		cause.Kind = vo.CauseWindowExpired
	case IsTruthy(raw[metaDisabledByResellerSuspension]):
		switch reason {
		case vo.ReasonResellerWindowExpired, vo.ReasonTimeWindowExpired:
			cause.Kind = vo.CauseWindowExpired
		case vo.ReasonWalletBalanceExhausted:
			cause.Kind = vo.CauseWalletExhausted
		default:
			cause.Kind = vo.CauseQuotaExhausted
		}
	default:
		return NoCause()
	}

	if cause.Reason == "" {
		cause.Reason = cause.Kind.DefaultReason()
	}
	return cause
}

// ToMap encodes the meta back into the persisted key/value layout.
func (m ConfigMeta) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Extra)+4)
	for k, v := range m.Extra {
		out[k] = v
	}

	if m.SettledUsageBytes != 0 || m.LastResetAt != nil {
		out[metaSettledUsageBytes] = m.SettledUsageBytes
	}
	if m.LastResetAt != nil {
		out[metaLastResetAt] = biztime.FormatMetadataTime(*m.LastResetAt)
	}

	switch m.Cause.Kind {
	case vo.CauseQuotaExhausted:
		out[metaDisabledByResellerSuspension] = true
	case vo.CauseWindowExpired:
		out[metaSuspendedByTimeWindow] = true
	case vo.CauseWalletExhausted:
		out[metaDisabledByWalletSuspension] = true
	default:
		return out
	}

	reason := m.Cause.Reason
	if reason == "" {
		reason = m.Cause.Kind.DefaultReason()
	}
	out[metaDisabledByResellerSuspensionReason] = reason
	if m.Cause.ResellerID != 0 {
		out[metaDisabledByResellerID] = m.Cause.ResellerID
	}
	return out
}

func (m ConfigMeta) clone() ConfigMeta {
	extra := make(map[string]interface{}, len(m.Extra))
	for k, v := range m.Extra {
		extra[k] = v
	}
	m.Extra = extra
	if m.LastResetAt != nil {
		t := *m.LastResetAt
		m.LastResetAt = &t
	}
	return m
}

// IsTruthy accepts the marker encodings found in stored meta: true, "1",
// "true", 1 and the float 1 produced by JSON decoding.
func IsTruthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.TrimSpace(strings.ToLower(b))
		return s == "1" || s == "true"
	case json.Number:
		return b.String() == "1"
	case float64:
		return b == 1
	case int:
		return b == 1
	case int64:
		return b == 1
	case uint:
		return b == 1
	}
	return false
}
