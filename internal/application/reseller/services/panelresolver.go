package services

import (
	"context"
	"fmt"

	"panelsync/internal/domain/panel"
)

// PanelResolver resolves the client for a config's own panel_id. Credentials
// are never looked up by vendor type.
type PanelResolver struct {
	panelRepo panel.Repository
	factory   panel.ClientFactory
}

func NewPanelResolver(panelRepo panel.Repository, factory panel.ClientFactory) *PanelResolver {
	return &PanelResolver{panelRepo: panelRepo, factory: factory}
}

func (r *PanelResolver) Resolve(ctx context.Context, panelID uint) (panel.Client, *panel.Panel, error) {
	if panelID == 0 {
		return nil, nil, panel.ErrMissingPanelID
	}

	p, err := r.panelRepo.GetByID(ctx, panelID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load panel %d: %w", panelID, err)
	}
	if p == nil {
		return nil, nil, fmt.Errorf("%w: id=%d", panel.ErrPanelNotFound, panelID)
	}
	if !p.Enabled() {
		return nil, p, fmt.Errorf("%w: panel %d is disabled", panel.ErrMissingConfiguration, panelID)
	}

	client, err := r.factory.ClientFor(p)
	if err != nil {
		return nil, p, err
	}
	return client, p, nil
}
