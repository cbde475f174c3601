package panelclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"panelsync/internal/domain/panel"
)

// xuiClient talks to an X-UI panel. Users are inbound clients addressed by
// email and the session is a cookie.
type xuiClient struct {
	*transport
	session  *session
	username string
	password string
}

type xuiInbound struct {
	id       int64
	remark   string
	protocol string
	enabled  bool
	clients  []map[string]interface{}
	stats    []map[string]interface{}
}

func (c *xuiClient) Login(ctx context.Context) error {
	return c.session.Login(ctx)
}

// fetchCookie posts the login form and returns the session cookies as a
// Cookie header value.
func (c *xuiClient) fetchCookie(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		header: http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		body:   formBody(url.Values{"username": {c.username}, "password": {c.password}}),
	})
	if err != nil {
		return "", fmt.Errorf("panel login failed: %w", err)
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return "", err
	}
	if ok, present := payload["success"].(bool); present && !ok {
		return "", fmt.Errorf("panel login failed: %w", panel.ErrUnauthorized)
	}

	parts := make([]string, 0, len(resp.Cookies()))
	for _, ck := range resp.Cookies() {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("panel login returned no session cookie: %w", panel.ErrUnauthorized)
	}
	return strings.Join(parts, "; "), nil
}

// call performs an authenticated request and unwraps the {success, msg, obj}
// envelope. A redirect means the session expired.
func (c *xuiClient) call(ctx context.Context, method, path string, body interface{}) (interface{}, error) {
	cookie, err := c.session.token(ctx)
	if err != nil {
		return nil, err
	}
	r := request{method: method, path: path, header: http.Header{"Cookie": {cookie}}}
	if body != nil {
		if r.body, err = jsonBody(body); err != nil {
			return nil, err
		}
		r.header.Set("Content-Type", "application/json")
	}

	payload, err := c.doJSON(ctx, r)
	if err != nil {
		var remoteErr *panel.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode >= 300 && remoteErr.StatusCode < 400 {
			return nil, panel.ErrUnauthorized
		}
		return nil, err
	}
	if ok, _ := payload["success"].(bool); !ok {
		return nil, &panel.RemoteError{StatusCode: http.StatusOK, Body: stringField(payload, "msg")}
	}
	return payload["obj"], nil
}

func (c *xuiClient) inbounds(ctx context.Context) ([]xuiInbound, error) {
	obj, err := c.call(ctx, http.MethodGet, "/panel/api/inbounds/list", nil)
	if err != nil {
		return nil, err
	}

	raw := extractList(obj)
	result := make([]xuiInbound, 0, len(raw))
	for _, item := range raw {
		id, _ := panel.AsInt64(item["id"])
		in := xuiInbound{
			id:       id,
			remark:   stringField(item, "remark"),
			protocol: stringField(item, "protocol"),
			enabled:  boolField(item, "enable"),
			stats:    extractList(item["clientStats"]),
		}
		if settings := stringField(item, "settings"); settings != "" {
			var parsed map[string]interface{}
			if err := decodeJSON(strings.NewReader(settings), &parsed); err == nil {
				in.clients = extractList(parsed, "clients")
			}
		}
		result = append(result, in)
	}
	return result, nil
}

func (c *xuiClient) findClient(ctx context.Context, email string) (xuiInbound, map[string]interface{}, error) {
	inbounds, err := c.inbounds(ctx)
	if err != nil {
		return xuiInbound{}, nil, err
	}
	for _, in := range inbounds {
		for _, client := range in.clients {
			if stringField(client, "email") == email {
				return in, client, nil
			}
		}
	}
	return xuiInbound{}, nil, panel.ErrUserNotFound
}

// clientKey is the identifier updateClient expects for the protocol.
func clientKey(protocol string, client map[string]interface{}) string {
	switch protocol {
	case "trojan":
		return stringField(client, "password")
	case "shadowsocks":
		return stringField(client, "email")
	default:
		return stringField(client, "id")
	}
}

func (c *xuiClient) GetUser(ctx context.Context, remoteID string) (*panel.RemoteUser, error) {
	obj, err := c.call(ctx, http.MethodGet, userPath("/panel/api/inbounds/getClientTraffics/%s", remoteID), nil)
	if err != nil {
		return nil, err
	}
	stats, ok := obj.(map[string]interface{})
	if !ok {
		return nil, panel.ErrUserNotFound
	}
	return remoteUserFrom(stats, remoteID), nil
}

func (c *xuiClient) DisableUser(ctx context.Context, remoteID string) error {
	return c.setEnabled(ctx, remoteID, false)
}

func (c *xuiClient) EnableUser(ctx context.Context, remoteID string) error {
	return c.setEnabled(ctx, remoteID, true)
}

func (c *xuiClient) setEnabled(ctx context.Context, email string, enabled bool) error {
	in, client, err := c.findClient(ctx, email)
	if err != nil {
		return err
	}
	if current, ok := client["enable"].(bool); ok && current == enabled {
		return nil
	}

	client["enable"] = enabled
	settings, err := json.Marshal(map[string]interface{}{"clients": []interface{}{client}})
	if err != nil {
		return fmt.Errorf("failed to encode client settings: %w", err)
	}
	path := userPath("/panel/api/inbounds/updateClient/%s", clientKey(in.protocol, client))
	_, err = c.call(ctx, http.MethodPost, path, map[string]interface{}{
		"id":       in.id,
		"settings": string(settings),
	})
	return err
}

func (c *xuiClient) ResetUsage(ctx context.Context, remoteID string) error {
	in, _, err := c.findClient(ctx, remoteID)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/panel/api/inbounds/%d/resetClientTraffic/%s", in.id, url.PathEscape(remoteID))
	_, err = c.call(ctx, http.MethodPost, path, nil)
	return err
}

func (c *xuiClient) ListUsers(ctx context.Context) ([]panel.RemoteUser, error) {
	inbounds, err := c.inbounds(ctx)
	if err != nil {
		return nil, err
	}
	var users []panel.RemoteUser
	for _, in := range inbounds {
		users = append(users, remoteUsersFrom(in.stats)...)
	}
	return users, nil
}

func (c *xuiClient) ListNodes(ctx context.Context) ([]panel.Node, error) {
	inbounds, err := c.inbounds(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make([]panel.Node, 0, len(inbounds))
	for _, in := range inbounds {
		status := "disabled"
		if in.enabled {
			status = "active"
		}
		nodes = append(nodes, panel.Node{ID: in.id, Name: in.remark, Status: status})
	}
	return nodes, nil
}

func (c *xuiClient) ListAdmins(context.Context) ([]panel.Admin, error) {
	return nil, panel.ErrUnsupported
}
