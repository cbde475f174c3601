// Package panel models the remote proxy/VPN management panels that host the
// accounts resellers sell, and the capability interface used to drive them.
package panel

import (
	"fmt"
	"strings"
	"time"
)

// PanelType identifies the vendor API spoken by a panel.
type PanelType string

const (
	TypeMarzban    PanelType = "marzban"
	TypeMarzneshin PanelType = "marzneshin"
	TypeEylandoo   PanelType = "eylandoo"
	TypeOVPanel    PanelType = "ovpanel"
	TypeXUI        PanelType = "xui"
)

var ValidPanelTypes = map[PanelType]bool{
	TypeMarzban:    true,
	TypeMarzneshin: true,
	TypeEylandoo:   true,
	TypeOVPanel:    true,
	TypeXUI:        true,
}

func (t PanelType) String() string {
	return string(t)
}

// UsesAPIKey reports whether the vendor authenticates with a static key
// instead of a username/password login.
func (t PanelType) UsesAPIKey() bool {
	return t == TypeEylandoo
}

// Panel is one registered remote panel. Several panels may share a vendor
// type; configs always reference the exact panel by ID.
type Panel struct {
	id        uint
	name      string
	panelType PanelType
	baseURL   string
	username  string
	password  string
	apiKey    string
	enabled   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewPanel registers a new panel.
func NewPanel(name string, panelType PanelType, baseURL, username, password, apiKey string) (*Panel, error) {
	if name == "" {
		return nil, fmt.Errorf("panel name is required")
	}
	if !ValidPanelTypes[panelType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPanelType, panelType)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("panel base URL is required")
	}

	now := time.Now().UTC()
	return &Panel{
		name:      name,
		panelType: panelType,
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		apiKey:    apiKey,
		enabled:   true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPanel rebuilds a panel from persistence.
func ReconstructPanel(
	id uint,
	name string,
	panelType PanelType,
	baseURL, username, password, apiKey string,
	enabled bool,
	createdAt, updatedAt time.Time,
) (*Panel, error) {
	if id == 0 {
		return nil, fmt.Errorf("panel ID cannot be zero")
	}
	if !ValidPanelTypes[panelType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPanelType, panelType)
	}

	return &Panel{
		id:        id,
		name:      name,
		panelType: panelType,
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		apiKey:    apiKey,
		enabled:   enabled,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (p *Panel) ID() uint             { return p.id }
func (p *Panel) Name() string         { return p.name }
func (p *Panel) Type() PanelType      { return p.panelType }
func (p *Panel) BaseURL() string      { return p.baseURL }
func (p *Panel) Username() string     { return p.username }
func (p *Panel) Password() string     { return p.password }
func (p *Panel) APIKey() string       { return p.apiKey }
func (p *Panel) Enabled() bool        { return p.enabled }
func (p *Panel) CreatedAt() time.Time { return p.createdAt }
func (p *Panel) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the panel ID after persistence.
func (p *Panel) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("panel ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("panel ID cannot be zero")
	}
	p.id = id
	return nil
}

// ValidateCredentials fails fast when the panel cannot possibly authenticate.
func (p *Panel) ValidateCredentials() error {
	if p.panelType.UsesAPIKey() {
		if p.apiKey == "" {
			return fmt.Errorf("%w: panel %d (%s) has no api key", ErrCredentialsMissing, p.id, p.panelType)
		}
		return nil
	}
	if p.username == "" || p.password == "" {
		return fmt.Errorf("%w: panel %d (%s) has no username/password", ErrCredentialsMissing, p.id, p.panelType)
	}
	return nil
}
