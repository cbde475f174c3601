package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/testutil"
	"panelsync/internal/infrastructure/config"
	handlertest "panelsync/internal/interfaces/http/handlers/testutil"
	sharedConfig "panelsync/internal/shared/config"
	"panelsync/internal/shared/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Retry: sharedConfig.RetryConfig{MaxAttempts: 1},
		Panel: sharedConfig.PanelConfig{RequestTimeout: time.Second, TokenTTL: time.Minute},
		Enforcement: sharedConfig.EnforcementConfig{
			ConfigGracePercent:   1,
			ResellerGracePercent: 1,
		},
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	store := testutil.NewStore(t)
	c, err := NewContainer(store.DB, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	return c
}

func do(c *Container, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

func TestContainer_Healthz(t *testing.T) {
	c := newTestContainer(t, testConfig())

	w := do(c, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestContainer_ResellerLifecycle(t *testing.T) {
	c := newTestContainer(t, testConfig())

	w := do(c, http.MethodPost, "/api/resellers", `{"name":"acme","type":"traffic","traffic_total_bytes":1073741824}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp, err := handlertest.ParseResponse(w)
	require.NoError(t, err)
	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "active", created.Status)

	w = do(c, http.MethodGet, "/api/resellers/"+strconv.FormatUint(uint64(created.ID), 10), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(c, http.MethodGet, "/api/resellers?status=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp, err = handlertest.ParseResponse(w)
	require.NoError(t, err)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)
}

func TestContainer_ErrorMapping(t *testing.T) {
	c := newTestContainer(t, testConfig())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/configs/abc", "", http.StatusBadRequest},
		{"unknown config", http.MethodGet, "/api/configs/999", "", http.StatusNotFound},
		{"unknown reseller", http.MethodPost, "/api/resellers/999/reactivate", "", http.StatusNotFound},
		{"invalid top-up", http.MethodPost, "/api/wallet/topups", `{"reference":"x"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(c, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestContainer_Settings(t *testing.T) {
	c := newTestContainer(t, testConfig())

	w := do(c, http.MethodGet, "/api/settings/enforcement", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainer_RateLimitsManualActions(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = sharedConfig.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}
	cfg.Server.RateLimitPerMinute = 1
	c := newTestContainer(t, cfg)

	body := `{"name":"acme","type":"traffic","traffic_total_bytes":1}`
	assert.Equal(t, http.StatusCreated, do(c, http.MethodPost, "/api/resellers", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(c, http.MethodPost, "/api/resellers", body).Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, do(c, http.MethodGet, "/api/resellers", "").Code)
	assert.Equal(t, http.StatusOK, do(c, http.MethodGet, "/healthz", "").Code)
}
