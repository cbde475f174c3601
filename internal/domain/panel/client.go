package panel

import "context"

// RemoteUser is the vendor-neutral view of one remote account.
type RemoteUser struct {
	Username  string
	UsedBytes int64
	RawStatus string
}

// Node is a vendor node or inbound as listed by the panel.
type Node struct {
	ID     int64
	Name   string
	Status string
}

// Admin is a panel-side admin account.
type Admin struct {
	Username string
	IsSudo   bool
}

// Authenticator acquires a fresh session or token.
type Authenticator interface {
	Login(ctx context.Context) error
}

// Client is the capability set every vendor adapter implements.
// DisableUser and EnableUser succeed when the user is already in the
// requested state.
type Client interface {
	Authenticator
	GetUser(ctx context.Context, remoteID string) (*RemoteUser, error)
	DisableUser(ctx context.Context, remoteID string) error
	EnableUser(ctx context.Context, remoteID string) error
	ResetUsage(ctx context.Context, remoteID string) error
	ListUsers(ctx context.Context) ([]RemoteUser, error)
	ListNodes(ctx context.Context) ([]Node, error)
	ListAdmins(ctx context.Context) ([]Admin, error)
}

// ClientFactory builds a client for one registered panel.
type ClientFactory interface {
	ClientFor(p *Panel) (Client, error)
}
