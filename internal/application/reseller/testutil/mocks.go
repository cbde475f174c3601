// Package testutil provides mock panel clients and an in-memory store for
// testing the reseller application layer.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"panelsync/internal/domain/panel"
)

// MockPanelClient is an in-memory panel. Remote users are keyed by remote ID.
type MockPanelClient struct {
	mu       sync.Mutex
	users    map[string]*panel.RemoteUser
	calls    []string
	logins   int
	expired  bool
	failures map[string]error
}

func NewMockPanelClient() *MockPanelClient {
	return &MockPanelClient{
		users:    make(map[string]*panel.RemoteUser),
		failures: make(map[string]error),
	}
}

// SetUser registers a remote user with the given usage.
func (m *MockPanelClient) SetUser(remoteID string, usedBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[remoteID] = &panel.RemoteUser{Username: remoteID, UsedBytes: usedBytes, RawStatus: "active"}
}

// Fail makes every call of op ("get", "disable", "enable", "reset") return err.
func (m *MockPanelClient) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// ExpireSession makes the next call fail with ErrUnauthorized until Login.
func (m *MockPanelClient) ExpireSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired = true
}

// Calls returns the recorded calls as "op:remoteID".
func (m *MockPanelClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CountCalls counts calls of op.
func (m *MockPanelClient) CountCalls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if len(c) > len(op) && c[:len(op)+1] == op+":" {
			n++
		}
	}
	return n
}

func (m *MockPanelClient) Logins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logins
}

// RemoteStatus returns the status the panel holds for remoteID.
func (m *MockPanelClient) RemoteStatus(remoteID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[remoteID]; ok {
		return u.RawStatus
	}
	return ""
}

func (m *MockPanelClient) begin(op, remoteID string) error {
	m.calls = append(m.calls, op+":"+remoteID)
	if m.expired {
		return panel.ErrUnauthorized
	}
	if err, ok := m.failures[op]; ok {
		return err
	}
	return nil
}

func (m *MockPanelClient) Login(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins++
	m.expired = false
	return nil
}

func (m *MockPanelClient) GetUser(ctx context.Context, remoteID string) (*panel.RemoteUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get", remoteID); err != nil {
		return nil, err
	}
	u, ok := m.users[remoteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", panel.ErrUserNotFound, remoteID)
	}
	copied := *u
	return &copied, nil
}

func (m *MockPanelClient) setStatus(op, remoteID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(op, remoteID); err != nil {
		return err
	}
	u, ok := m.users[remoteID]
	if !ok {
		return fmt.Errorf("%w: %s", panel.ErrUserNotFound, remoteID)
	}
	u.RawStatus = status
	return nil
}

func (m *MockPanelClient) DisableUser(ctx context.Context, remoteID string) error {
	return m.setStatus("disable", remoteID, "disabled")
}

func (m *MockPanelClient) EnableUser(ctx context.Context, remoteID string) error {
	return m.setStatus("enable", remoteID, "active")
}

func (m *MockPanelClient) ResetUsage(ctx context.Context, remoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("reset", remoteID); err != nil {
		return err
	}
	u, ok := m.users[remoteID]
	if !ok {
		return fmt.Errorf("%w: %s", panel.ErrUserNotFound, remoteID)
	}
	u.UsedBytes = 0
	return nil
}

func (m *MockPanelClient) ListUsers(ctx context.Context) ([]panel.RemoteUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list", ""); err != nil {
		return nil, err
	}
	out := make([]panel.RemoteUser, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *MockPanelClient) ListNodes(ctx context.Context) ([]panel.Node, error) {
	return nil, panel.ErrUnsupported
}

func (m *MockPanelClient) ListAdmins(ctx context.Context) ([]panel.Admin, error) {
	return nil, panel.ErrUnsupported
}

// MockClientFactory hands out one MockPanelClient per panel ID and runs the
// same credential check as the real factory.
type MockClientFactory struct {
	mu      sync.Mutex
	clients map[uint]*MockPanelClient
}

func NewMockClientFactory() *MockClientFactory {
	return &MockClientFactory{clients: make(map[uint]*MockPanelClient)}
}

// Client returns the mock behind panelID, creating it on first use.
func (f *MockClientFactory) Client(panelID uint) *MockPanelClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[panelID]
	if !ok {
		c = NewMockPanelClient()
		f.clients[panelID] = c
	}
	return c
}

func (f *MockClientFactory) ClientFor(p *panel.Panel) (panel.Client, error) {
	if p == nil {
		return nil, panel.ErrPanelNotFound
	}
	if err := p.ValidateCredentials(); err != nil {
		return nil, err
	}
	return f.Client(p.ID()), nil
}

var _ panel.ClientFactory = (*MockClientFactory)(nil)
var _ panel.Client = (*MockPanelClient)(nil)
