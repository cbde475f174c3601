package panelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"panelsync/internal/domain/panel"
	"panelsync/internal/shared/logger"
)

const (
	// Maximum response body read from a panel (4MB). User lists on large
	// panels are the biggest payloads.
	maxPanelResponseSize = 4 << 20
	// Maximum error body kept on a RemoteError
	maxErrorBodySize = 512
)

// transport performs one HTTP exchange against a panel and classifies the
// response. Authentication headers are supplied by the caller.
type transport struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func newTransport(baseURL string, httpClient *http.Client, log logger.Interface) *transport {
	return &transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}
}

type request struct {
	method string
	path   string
	header http.Header
	body   io.Reader
	// alreadyInState marks 409 Conflict as success for idempotent toggles.
	alreadyInState bool
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

func formBody(values url.Values) io.Reader {
	return strings.NewReader(values.Encode())
}

// do sends the request and returns the response for the caller to read.
// Non-2xx statuses are turned into domain errors and the body is closed.
func (t *transport) do(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, t.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("panel request %s %s failed: %w", r.method, r.path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict && r.alreadyInState {
		t.logger.Debugw("panel reported user already in requested state", "path", r.path)
		return nil, nil
	}
	return nil, classifyStatus(resp)
}

func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return panel.ErrUnauthorized
	case http.StatusNotFound:
		return panel.ErrUserNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return &panel.RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// doJSON sends the request and decodes a JSON object response. Numbers are
// kept as json.Number so large byte counters survive decoding.
func (t *transport) doJSON(ctx context.Context, r request) (map[string]interface{}, error) {
	resp, err := t.do(ctx, r)
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// doJSONList is doJSON for endpoints that answer with a bare array or with
// the array wrapped under one of keys.
func (t *transport) doJSONList(ctx context.Context, r request, keys ...string) ([]map[string]interface{}, error) {
	resp, err := t.do(ctx, r)
	if err != nil || resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw interface{}
	if err := decodeJSON(resp.Body, &raw); err != nil {
		return nil, err
	}
	return extractList(raw, keys...), nil
}

// doDiscard sends the request and ignores the response body.
func (t *transport) doDiscard(ctx context.Context, r request) error {
	resp, err := t.do(ctx, r)
	if err != nil || resp == nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPanelResponseSize))
	return nil
}

func decodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(body, maxPanelResponseSize))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode panel response: %w", err)
	}
	return nil
}

func extractList(raw interface{}, keys ...string) []map[string]interface{} {
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		for _, key := range keys {
			if list, ok := v[key].([]interface{}); ok {
				items = list
				break
			}
		}
	}

	result := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			result = append(result, m)
		}
	}
	return result
}

func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func remoteUserFrom(payload map[string]interface{}, fallbackName string) *panel.RemoteUser {
	used, _ := panel.NormalizeUsedBytes(payload)
	name := stringField(payload, "username", "email", "name")
	if name == "" {
		name = fallbackName
	}
	return &panel.RemoteUser{
		Username:  name,
		UsedBytes: used,
		RawStatus: panel.NormalizeStatus(payload),
	}
}

func remoteUsersFrom(items []map[string]interface{}) []panel.RemoteUser {
	users := make([]panel.RemoteUser, 0, len(items))
	for _, item := range items {
		users = append(users, *remoteUserFrom(item, ""))
	}
	return users
}

func nodesFrom(items []map[string]interface{}) []panel.Node {
	nodes := make([]panel.Node, 0, len(items))
	for _, item := range items {
		id, _ := panel.AsInt64(item["id"])
		nodes = append(nodes, panel.Node{
			ID:     id,
			Name:   stringField(item, "name", "remark"),
			Status: panel.NormalizeStatus(item),
		})
	}
	return nodes
}

func adminsFrom(items []map[string]interface{}) []panel.Admin {
	admins := make([]panel.Admin, 0, len(items))
	for _, item := range items {
		admins = append(admins, panel.Admin{
			Username: stringField(item, "username"),
			IsSudo:   boolField(item, "is_sudo"),
		})
	}
	return admins
}

func userPath(format, remoteID string) string {
	return fmt.Sprintf(format, url.PathEscape(remoteID))
}
