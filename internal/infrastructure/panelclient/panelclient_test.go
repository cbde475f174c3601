package panelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/domain/panel"
	"panelsync/internal/shared/logger"
)

func newTestPanel(t *testing.T, panelType panel.PanelType, baseURL string) *panel.Panel {
	t.Helper()
	p, err := panel.NewPanel("test", panelType, baseURL, "admin", "secret", "key-1")
	require.NoError(t, err)
	require.NoError(t, p.SetID(1))
	return p
}

func newTestFactory() *Factory {
	return NewFactory(NewMemoryTokenStore(), time.Second, time.Minute, logger.NewNopLogger())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestMarzban_LoginAndGetUser(t *testing.T) {
	var logins int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/token":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "admin", r.PostForm.Get("username"))
			atomic.AddInt32(&logins, 1)
			writeJSON(w, map[string]string{"access_token": "tok"})
		case "/api/user/alice":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, map[string]interface{}{"username": "alice", "used_traffic": 5368709120, "status": "active"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := newTestFactory().ClientFor(newTestPanel(t, panel.TypeMarzban, srv.URL))
	require.NoError(t, err)

	user, err := client.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5368709120), user.UsedBytes)
	assert.Equal(t, "active", user.RawStatus)

	_, err = client.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&logins), "token must be reused")

	_, err = client.GetUser(context.Background(), "bob")
	assert.ErrorIs(t, err, panel.ErrUserNotFound)
}

func TestMarzban_UnauthorizedIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/token" {
			writeJSON(w, map[string]string{"access_token": "stale"})
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := newTestFactory().ClientFor(newTestPanel(t, panel.TypeMarzban, srv.URL))
	require.NoError(t, err)

	err = client.DisableUser(context.Background(), "alice")
	assert.ErrorIs(t, err, panel.ErrUnauthorized)
}

func TestMarzneshin_ToggleConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admins/token":
			writeJSON(w, map[string]string{"access_token": "tok"})
		case "/api/users/alice/disable":
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusConflict)
		case "/api/users/alice/enable":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := newTestFactory().ClientFor(newTestPanel(t, panel.TypeMarzneshin, srv.URL))
	require.NoError(t, err)

	assert.NoError(t, client.DisableUser(context.Background(), "alice"))

	err = client.EnableUser(context.Background(), "alice")
	var remoteErr *panel.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Equal(t, "boom", remoteErr.Body)
}

func TestEylandoo_APIKeyAndListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v1/users":
			writeJSON(w, map[string]interface{}{"users": []map[string]interface{}{
				{"username": "a", "data_used": 10},
				{"username": "b", "upload_bytes": 3, "download_bytes": 4},
			}})
		case "/api/v1/users/a":
			writeJSON(w, map[string]interface{}{"data": map[string]interface{}{"username": "a", "used_traffic": 42}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := newTestFactory().ClientFor(newTestPanel(t, panel.TypeEylandoo, srv.URL))
	require.NoError(t, err)
	require.NoError(t, client.Login(context.Background()))

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(10), users[0].UsedBytes)
	assert.Equal(t, int64(7), users[1].UsedBytes)

	user, err := client.GetUser(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.UsedBytes)

	_, err = client.ListAdmins(context.Background())
	assert.ErrorIs(t, err, panel.ErrUnsupported)
}

func TestXUI_DisableByEmail(t *testing.T) {
	var updated map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "3x-ui", Value: "sess"})
			writeJSON(w, map[string]interface{}{"success": true})
			return
		}
		if c, err := r.Cookie("3x-ui"); err != nil || c.Value != "sess" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		switch r.URL.Path {
		case "/panel/api/inbounds/list":
			settings := `{"clients":[{"id":"uuid-1","email":"alice","enable":true}]}`
			writeJSON(w, map[string]interface{}{"success": true, "obj": []map[string]interface{}{
				{"id": 3, "remark": "in-3", "protocol": "vless", "enable": true, "settings": settings,
					"clientStats": []map[string]interface{}{{"email": "alice", "up": 1, "down": 2, "enable": true}}},
			}})
		case "/panel/api/inbounds/updateClient/uuid-1":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
			writeJSON(w, map[string]interface{}{"success": true})
		case "/panel/api/inbounds/getClientTraffics/alice":
			writeJSON(w, map[string]interface{}{"success": true, "obj": map[string]interface{}{"email": "alice", "up": 10, "down": 20, "enable": false}})
		case "/panel/api/inbounds/getClientTraffics/ghost":
			writeJSON(w, map[string]interface{}{"success": true, "obj": nil})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := newTestFactory().ClientFor(newTestPanel(t, panel.TypeXUI, srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.DisableUser(ctx, "alice"))
	require.NotNil(t, updated)
	assert.EqualValues(t, 3, updated["id"])
	assert.Contains(t, updated["settings"], `"enable":false`)

	user, err := client.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(30), user.UsedBytes)
	assert.Equal(t, "disabled", user.RawStatus)

	_, err = client.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, panel.ErrUserNotFound)

	err = client.EnableUser(ctx, "nobody")
	assert.ErrorIs(t, err, panel.ErrUserNotFound)

	nodes, err := client.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "in-3", nodes[0].Name)
}

func TestXUI_ExpiredSessionIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(context.Background(), 1, "3x-ui=old", time.Minute))
	f := NewFactory(store, time.Second, time.Minute, logger.NewNopLogger())

	client, err := f.ClientFor(newTestPanel(t, panel.TypeXUI, srv.URL))
	require.NoError(t, err)

	_, err = client.GetUser(context.Background(), "alice")
	assert.ErrorIs(t, err, panel.ErrUnauthorized)
}

func TestFactory_CredentialsMissing(t *testing.T) {
	p, err := panel.NewPanel("bare", panel.TypeMarzban, "http://example.invalid", "", "", "")
	require.NoError(t, err)

	_, err = newTestFactory().ClientFor(p)
	assert.ErrorIs(t, err, panel.ErrCredentialsMissing)
	assert.True(t, panel.IsMissingConfiguration(err))

	_, err = newTestFactory().ClientFor(nil)
	assert.ErrorIs(t, err, panel.ErrPanelNotFound)
}

func TestMemoryTokenStore_Expiry(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "tok", time.Minute))
	token, _ := store.Get(ctx, 1)
	assert.Equal(t, "tok", token)

	now = now.Add(time.Minute)
	token, _ = store.Get(ctx, 1)
	assert.Empty(t, token)
}
