package dto

import (
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
)

func ToConfigDTO(c *reseller.Config) *ConfigDTO {
	if c == nil {
		return nil
	}
	out := &ConfigDTO{
		ID:                c.ID(),
		ResellerID:        c.ResellerID(),
		PanelID:           c.PanelID(),
		PanelType:         c.PanelType().String(),
		PanelUserID:       c.PanelUserID(),
		Status:            c.Status().String(),
		TrafficLimitBytes: c.TrafficLimitBytes(),
		UsageBytes:        c.UsageBytes(),
		SettledUsageBytes: c.SettledUsageBytes(),
		ExpiresAt:         c.ExpiresAt(),
		DisabledAt:        c.DisabledAt(),
		DeletedAt:         c.DeletedAt(),
		Version:           c.Version(),
	}
	if cause := c.DisableCause(); cause.Kind != vo.CauseNone {
		out.DisableCause = cause.Kind.String()
	}
	return out
}

func ToResellerDTO(r *reseller.Reseller) *ResellerDTO {
	if r == nil {
		return nil
	}
	return &ResellerDTO{
		ID:                r.ID(),
		Name:              r.Name(),
		Type:              r.Type().String(),
		Status:            r.Status().String(),
		TrafficTotalBytes: r.TrafficTotalBytes(),
		TrafficUsedBytes:  r.TrafficUsedBytes(),
		WindowStartsAt:    r.WindowStartsAt(),
		WindowEndsAt:      r.WindowEndsAt(),
		WalletBalance:     r.WalletBalance(),
		WalletPricePerGB:  r.WalletPricePerGB(),
	}
}

func ToConfigEventDTOs(events []*reseller.ConfigEvent) []*ConfigEventDTO {
	out := make([]*ConfigEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, &ConfigEventDTO{
			ID:        e.ID(),
			Type:      e.Type().String(),
			Reason:    e.Reason(),
			Meta:      e.Meta(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return out
}

func ToAuditLogDTOs(logs []*reseller.AuditLog) []*AuditLogDTO {
	out := make([]*AuditLogDTO, 0, len(logs))
	for _, a := range logs {
		out = append(out, &AuditLogDTO{
			ID:         a.ID(),
			Action:     a.Action(),
			TargetType: a.TargetType(),
			TargetID:   a.TargetID(),
			Reason:     a.Reason(),
			ActorID:    a.ActorID(),
			ActorType:  a.ActorType(),
			Meta:       a.Meta(),
			CreatedAt:  a.CreatedAt(),
		})
	}
	return out
}

func ToPanelDTO(p *panel.Panel) *PanelDTO {
	if p == nil {
		return nil
	}
	return &PanelDTO{
		ID:      p.ID(),
		Name:    p.Name(),
		Type:    p.Type().String(),
		BaseURL: p.BaseURL(),
		Enabled: p.Enabled(),
	}
}
