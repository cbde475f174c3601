package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/dto"
	settingdto "panelsync/internal/application/setting/dto"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/interfaces/http/handlers/testutil"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

type mockResellerActions struct {
	report      *dto.SyncReport
	result      *dto.ActionResult
	err         error
	actor       reseller.Actor
	quota       dto.AdjustResellerQuotaRequest
	listRequest dto.ListResellersRequest
	page        *dto.ResellerPage
}

func (m *mockResellerActions) SyncReseller(ctx context.Context, resellerID uint) (*dto.SyncReport, error) {
	return m.report, m.err
}

func (m *mockResellerActions) ReactivateOne(ctx context.Context, resellerID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	m.actor = actor
	return m.result, m.err
}

func (m *mockResellerActions) Execute(ctx context.Context, resellerID uint, req dto.AdjustResellerQuotaRequest, actor reseller.Actor) (*dto.ActionResult, error) {
	m.actor = actor
	m.quota = req
	return m.result, m.err
}

func (m *mockResellerActions) GetReseller(ctx context.Context, resellerID uint) (*dto.ResellerDTO, error) {
	return &dto.ResellerDTO{ID: resellerID}, m.err
}

func (m *mockResellerActions) ListResellers(ctx context.Context, req dto.ListResellersRequest) (*dto.ResellerPage, error) {
	m.listRequest = req
	return m.page, m.err
}

func (m *mockResellerActions) ListResellerConfigs(ctx context.Context, resellerID uint) ([]*dto.ConfigDTO, error) {
	return nil, m.err
}

func (m *mockResellerActions) ListResellerAudit(ctx context.Context, resellerID uint, page, pageSize int) (*dto.AuditLogPage, error) {
	return &dto.AuditLogPage{}, m.err
}

func newResellerHandler(m *mockResellerActions) *ResellerHandler {
	return NewResellerHandler(m, m, m, m, logger.NewNopLogger())
}

func TestResellerHandler_SyncWarnsOnFailedConfigs(t *testing.T) {
	m := &mockResellerActions{report: &dto.SyncReport{ConfigsChecked: 3, ConfigsFailed: 1}}
	h := newResellerHandler(m)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/resellers/1/sync", nil)
	testutil.SetURLParam(c, "id", "1")
	h.Sync(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Warning)

	m.report = &dto.SyncReport{ConfigsChecked: 3}
	c, w = testutil.NewTestContext(http.MethodPost, "/api/resellers/1/sync", nil)
	testutil.SetURLParam(c, "id", "1")
	h.Sync(c)
	resp, err = testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)
}

func TestResellerHandler_Reactivate(t *testing.T) {
	m := &mockResellerActions{err: apperrors.NewConflictError("reseller is still blocked", "no_traffic_headroom")}
	h := newResellerHandler(m)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/resellers/2/reactivate", nil)
	testutil.SetURLParam(c, "id", "2")
	testutil.SetActor(c, 3)
	h.Reactivate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.Equal(t, "no_traffic_headroom", resp.Error.Details)
	assert.Equal(t, uint(3), m.actor.ID)
}

func TestResellerHandler_AdjustQuota(t *testing.T) {
	m := &mockResellerActions{result: &dto.ActionResult{Result: dto.ResultSucceeded, Reseller: &dto.ResellerDTO{ID: 2, Status: "active"}}}
	h := newResellerHandler(m)

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/resellers/2/quota", map[string]interface{}{
		"add_traffic_bytes": 5368709120,
		"window_ends_at":    "2031-06-01",
	})
	testutil.SetURLParam(c, "id", "2")
	h.AdjustQuota(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5368709120), m.quota.AddTrafficBytes)
	require.NotNil(t, m.quota.WindowEndsAt)
	assert.Equal(t, "2031-06-01", *m.quota.WindowEndsAt)
}

func TestResellerHandler_ListResellers(t *testing.T) {
	m := &mockResellerActions{page: &dto.ResellerPage{Items: []*dto.ResellerDTO{{ID: 1}}, Total: 41}}
	h := newResellerHandler(m)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/resellers", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "suspended", "page": "2", "page_size": "20"})
	h.ListResellers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ListResellersRequest{Status: "suspended", Page: 2, PageSize: 20}, m.listRequest)

	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	var list utils.ListResponse
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(41), list.Total)
	assert.Equal(t, 3, list.TotalPages)
}

type mockTopUp struct {
	result *dto.TopUpWalletResponse
	err    error
	calls  int
}

func (m *mockTopUp) Execute(ctx context.Context, req dto.TopUpWalletRequest, actor reseller.Actor) (*dto.TopUpWalletResponse, error) {
	m.calls++
	return m.result, m.err
}

func TestWalletHandler_TopUp(t *testing.T) {
	body := map[string]interface{}{"reference": "pay-1", "reseller_id": 4, "amount": 5000}

	t.Run("first delivery is created", func(t *testing.T) {
		m := &mockTopUp{result: &dto.TopUpWalletResponse{Reference: "pay-1", Credited: true, Balance: 5000}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/wallet/topups", body)
		NewWalletHandler(m, logger.NewNopLogger()).TopUp(c)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("replay is ok", func(t *testing.T) {
		m := &mockTopUp{result: &dto.TopUpWalletResponse{Reference: "pay-1", AlreadyComplete: true}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/wallet/topups", body)
		NewWalletHandler(m, logger.NewNopLogger()).TopUp(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing fields are rejected before the use case", func(t *testing.T) {
		m := &mockTopUp{}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/wallet/topups", map[string]interface{}{"reseller_id": 4, "amount": 0})
		NewWalletHandler(m, logger.NewNopLogger()).TopUp(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, m.calls)
	})
}

type mockSettings struct {
	updateErr error
	updated   settingdto.UpdateEnforcementSettingsRequest
}

func (m *mockSettings) Get(ctx context.Context) *settingdto.EnforcementSettingsResponse {
	return &settingdto.EnforcementSettingsResponse{Category: "enforcement"}
}

type settingsGetter struct{ m *mockSettings }

func (g settingsGetter) Execute(ctx context.Context) *settingdto.EnforcementSettingsResponse {
	return g.m.Get(ctx)
}

func (m *mockSettings) Execute(ctx context.Context, request settingdto.UpdateEnforcementSettingsRequest) error {
	m.updated = request
	return m.updateErr
}

func TestSettingHandler_UpdateEnforcement(t *testing.T) {
	m := &mockSettings{}
	h := NewSettingHandler(settingsGetter{m}, m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/settings/enforcement", map[string]interface{}{
		"settings": map[string]string{"config_grace_percent": "5"},
	})
	h.UpdateEnforcement(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", m.updated.Settings["config_grace_percent"])

	m.updateErr = apperrors.NewValidationError("unknown enforcement setting", "nope")
	c, w = testutil.NewTestContext(http.MethodPatch, "/api/settings/enforcement", map[string]interface{}{
		"settings": map[string]string{"nope": "1"},
	})
	h.UpdateEnforcement(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	up := HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	c, w := testutil.NewTestContext(http.MethodGet, "/healthz", nil)
	NewHealthHandler(logger.NewNopLogger(), up).Healthz(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/healthz", nil)
	NewHealthHandler(logger.NewNopLogger(), up, down).Healthz(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	var status map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, map[string]string{"database": "up", "redis": "down"}, status)
}
