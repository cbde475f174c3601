package panelclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"panelsync/internal/domain/panel"
)

// restDialect describes the REST routes of one vendor. Path fields holding a
// %s take the escaped remote user ID.
type restDialect struct {
	loginPath  string
	loginJSON  bool
	userPath   string
	resetPath  string
	usersPath  string
	usersKeys  []string
	nodesPath  string
	nodesKeys  []string
	adminsPath string
	adminsKeys []string
	setStatus  func(remoteID string, enabled bool) (request, error)
}

// restClient serves the vendors whose API is plain REST with a bearer token
// or a static API key.
type restClient struct {
	*transport
	dialect restDialect
	auth    func(ctx context.Context) (http.Header, error)
	login   func(ctx context.Context) error
}

func (c *restClient) Login(ctx context.Context) error {
	if c.login == nil {
		return nil
	}
	return c.login(ctx)
}

func (c *restClient) authed(ctx context.Context, r request) (request, error) {
	header, err := c.auth(ctx)
	if err != nil {
		return r, err
	}
	if r.header == nil {
		r.header = http.Header{}
	}
	for k, vs := range header {
		r.header[k] = vs
	}
	return r, nil
}

func (c *restClient) GetUser(ctx context.Context, remoteID string) (*panel.RemoteUser, error) {
	r, err := c.authed(ctx, request{method: http.MethodGet, path: userPath(c.dialect.userPath, remoteID)})
	if err != nil {
		return nil, err
	}
	payload, err := c.doJSON(ctx, r)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, panel.ErrUserNotFound
	}
	return remoteUserFrom(payload, remoteID), nil
}

func (c *restClient) DisableUser(ctx context.Context, remoteID string) error {
	return c.toggle(ctx, remoteID, false)
}

func (c *restClient) EnableUser(ctx context.Context, remoteID string) error {
	return c.toggle(ctx, remoteID, true)
}

func (c *restClient) toggle(ctx context.Context, remoteID string, enabled bool) error {
	r, err := c.dialect.setStatus(remoteID, enabled)
	if err != nil {
		return err
	}
	r.alreadyInState = true
	if r, err = c.authed(ctx, r); err != nil {
		return err
	}
	return c.doDiscard(ctx, r)
}

func (c *restClient) ResetUsage(ctx context.Context, remoteID string) error {
	if c.dialect.resetPath == "" {
		return panel.ErrUnsupported
	}
	r, err := c.authed(ctx, request{method: http.MethodPost, path: userPath(c.dialect.resetPath, remoteID)})
	if err != nil {
		return err
	}
	return c.doDiscard(ctx, r)
}

func (c *restClient) list(ctx context.Context, path string, keys []string) ([]map[string]interface{}, error) {
	if path == "" {
		return nil, panel.ErrUnsupported
	}
	r, err := c.authed(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return c.doJSONList(ctx, r, keys...)
}

func (c *restClient) ListUsers(ctx context.Context) ([]panel.RemoteUser, error) {
	items, err := c.list(ctx, c.dialect.usersPath, c.dialect.usersKeys)
	if err != nil {
		return nil, err
	}
	return remoteUsersFrom(items), nil
}

func (c *restClient) ListNodes(ctx context.Context) ([]panel.Node, error) {
	items, err := c.list(ctx, c.dialect.nodesPath, c.dialect.nodesKeys)
	if err != nil {
		return nil, err
	}
	return nodesFrom(items), nil
}

func (c *restClient) ListAdmins(ctx context.Context) ([]panel.Admin, error) {
	items, err := c.list(ctx, c.dialect.adminsPath, c.dialect.adminsKeys)
	if err != nil {
		return nil, err
	}
	return adminsFrom(items), nil
}

// fetchToken runs the vendor login and extracts the access token.
func (c *restClient) fetchToken(ctx context.Context, username, password string) (string, error) {
	r := request{method: http.MethodPost, path: c.dialect.loginPath, header: http.Header{}}
	if c.dialect.loginJSON {
		body, err := jsonBody(map[string]string{"username": username, "password": password})
		if err != nil {
			return "", err
		}
		r.body = body
		r.header.Set("Content-Type", "application/json")
	} else {
		r.body = formBody(url.Values{
			"grant_type": {"password"},
			"username":   {username},
			"password":   {password},
		})
		r.header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	payload, err := c.doJSON(ctx, r)
	if err != nil {
		return "", fmt.Errorf("panel login failed: %w", err)
	}
	token := stringField(payload, "access_token", "token")
	if token == "" {
		if nested, ok := payload["data"].(map[string]interface{}); ok {
			token = stringField(nested, "access_token", "token")
		}
	}
	if token == "" {
		return "", fmt.Errorf("panel login failed: %w", panel.ErrUnauthorized)
	}
	return token, nil
}

func jsonStatusRequest(method, path string, payload interface{}) (request, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return request{}, err
	}
	return request{
		method: method,
		path:   path,
		header: http.Header{"Content-Type": {"application/json"}},
		body:   body,
	}, nil
}

var marzbanDialect = restDialect{
	loginPath:  "/api/admin/token",
	userPath:   "/api/user/%s",
	resetPath:  "/api/user/%s/reset",
	usersPath:  "/api/users",
	usersKeys:  []string{"users"},
	nodesPath:  "/api/nodes",
	adminsPath: "/api/admins",
	setStatus: func(remoteID string, enabled bool) (request, error) {
		status := "disabled"
		if enabled {
			status = "active"
		}
		return jsonStatusRequest(http.MethodPut, userPath("/api/user/%s", remoteID), map[string]string{"status": status})
	},
}

var marzneshinDialect = restDialect{
	loginPath:  "/api/admins/token",
	userPath:   "/api/users/%s",
	resetPath:  "/api/users/%s/reset",
	usersPath:  "/api/users",
	usersKeys:  []string{"items", "users"},
	nodesPath:  "/api/nodes",
	nodesKeys:  []string{"items"},
	adminsPath: "/api/admins",
	adminsKeys: []string{"items"},
	setStatus: func(remoteID string, enabled bool) (request, error) {
		action := "disable"
		if enabled {
			action = "enable"
		}
		return request{method: http.MethodPost, path: userPath("/api/users/%s/"+action, remoteID)}, nil
	},
}

var ovpanelDialect = restDialect{
	loginPath: "/api/login",
	loginJSON: true,
	userPath:  "/api/user/%s",
	resetPath: "/api/user/%s/reset",
	usersPath: "/api/users",
	usersKeys: []string{"data", "users"},
	nodesPath: "/api/nodes",
	nodesKeys: []string{"data", "nodes"},
	setStatus: func(remoteID string, enabled bool) (request, error) {
		status := "deactive"
		if enabled {
			status = "active"
		}
		return jsonStatusRequest(http.MethodPut, userPath("/api/user/%s/status", remoteID), map[string]string{"status": status})
	},
}

var eylandooDialect = restDialect{
	userPath:  "/api/v1/users/%s",
	resetPath: "/api/v1/users/%s/reset_traffic",
	usersPath: "/api/v1/users",
	usersKeys: []string{"users", "data"},
	nodesPath: "/api/v1/nodes",
	nodesKeys: []string{"nodes", "data"},
	setStatus: func(remoteID string, enabled bool) (request, error) {
		return jsonStatusRequest(http.MethodPut, userPath("/api/v1/users/%s", remoteID), map[string]bool{"is_active": enabled})
	},
}
