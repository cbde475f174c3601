package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/interfaces/http/handlers/testutil"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockStatusSetter struct{ mock.Mock }

func (m *mockStatusSetter) Enable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	args := m.Called(ctx, configID, actor)
	result, _ := args.Get(0).(*dto.ActionResult)
	return result, args.Error(1)
}

func (m *mockStatusSetter) Disable(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	args := m.Called(ctx, configID, actor)
	result, _ := args.Get(0).(*dto.ActionResult)
	return result, args.Error(1)
}

type mockConfigAction struct {
	result  *dto.ActionResult
	err     error
	calls   int
	actor   reseller.Actor
	request dto.UpdateConfigLimitsRequest
}

func (m *mockConfigAction) Execute(ctx context.Context, configID uint, actor reseller.Actor) (*dto.ActionResult, error) {
	m.calls++
	m.actor = actor
	return m.result, m.err
}

func (m *mockConfigAction) SyncConfig(ctx context.Context, configID uint) (*dto.ActionResult, error) {
	m.calls++
	return m.result, m.err
}

type mockLimitsUpdater struct {
	mockConfigAction
}

func (m *mockLimitsUpdater) Execute(ctx context.Context, configID uint, req dto.UpdateConfigLimitsRequest, actor reseller.Actor) (*dto.ActionResult, error) {
	m.request = req
	return m.mockConfigAction.Execute(ctx, configID, actor)
}

type mockConfigQueries struct {
	config *dto.ConfigDTO
	events []*dto.ConfigEventDTO
	err    error
	limit  int
}

func (m *mockConfigQueries) GetConfig(ctx context.Context, configID uint) (*dto.ConfigDTO, error) {
	return m.config, m.err
}

func (m *mockConfigQueries) ListConfigEvents(ctx context.Context, configID uint, limit int) ([]*dto.ConfigEventDTO, error) {
	m.limit = limit
	return m.events, m.err
}

type configMocks struct {
	syncer  *mockConfigAction
	reset   *mockConfigAction
	status  *mockStatusSetter
	limits  *mockLimitsUpdater
	deleter *mockConfigAction
	queries *mockConfigQueries
}

func newConfigHandler() (*ConfigHandler, *configMocks) {
	m := &configMocks{
		syncer:  &mockConfigAction{},
		reset:   &mockConfigAction{},
		status:  &mockStatusSetter{},
		limits:  &mockLimitsUpdater{},
		deleter: &mockConfigAction{},
		queries: &mockConfigQueries{},
	}
	h := NewConfigHandler(m.syncer, m.reset, m.status, m.limits, m.deleter, m.queries, logger.NewNopLogger())
	return h, m
}

// =====================================================================
// Tests
// =====================================================================

func TestConfigHandler_EnableLiftsWarningIntoEnvelope(t *testing.T) {
	h, m := newConfigHandler()
	actor := reseller.Actor{ID: 7, Type: "admin"}
	m.status.On("Enable", mock.Anything, uint(5), actor).Return(&dto.ActionResult{
		Result:  dto.ResultSucceededWithWarning,
		Warning: "panel responded with status 502",
		Config:  &dto.ConfigDTO{ID: 5, Status: "active"},
	}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/configs/5/enable", nil)
	testutil.SetURLParam(c, "id", "5")
	testutil.SetActor(c, 7)

	h.Enable(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Config enabled", resp.Message)
	assert.Equal(t, "panel responded with status 502", resp.Warning)

	var result dto.ActionResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, dto.ResultSucceededWithWarning, result.Result)
	m.status.AssertExpectations(t)
}

func TestConfigHandler_DisableWithoutActorRunsAsSystem(t *testing.T) {
	h, m := newConfigHandler()
	m.status.On("Disable", mock.Anything, uint(3), reseller.SystemActor).
		Return(&dto.ActionResult{Result: dto.ResultSucceeded}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/configs/3/disable", nil)
	testutil.SetURLParam(c, "id", "3")

	h.Disable(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)
	m.status.AssertExpectations(t)
}

func TestConfigHandler_InvalidID(t *testing.T) {
	h, m := newConfigHandler()

	for _, raw := range []string{"abc", "0", "-1"} {
		c, w := testutil.NewTestContext(http.MethodPost, "/api/configs/"+raw+"/enable", nil)
		testutil.SetURLParam(c, "id", raw)

		h.Enable(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		resp, err := testutil.ParseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, string(apperrors.ErrorTypeValidation), resp.Error.Type)
	}
	m.status.AssertNotCalled(t, "Enable", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfigHandler_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", apperrors.NewNotFoundError("config not found"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.NewConflictError("config is deleted"), http.StatusConflict, "conflict"},
		{"upstream", apperrors.NewUpstreamError("panel did not confirm the usage reset"), http.StatusBadGateway, "upstream_error"},
		{"unexpected", errors.New("database is gone"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newConfigHandler()
			m.reset.err = tt.err

			c, w := testutil.NewTestContext(http.MethodPost, "/api/configs/1/reset", nil)
			testutil.SetURLParam(c, "id", "1")

			h.ResetUsage(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp, err := testutil.ParseResponse(w)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.NotContains(t, w.Body.String(), "database is gone")
		})
	}
}

func TestConfigHandler_UpdateLimits(t *testing.T) {
	t.Run("passes the request through", func(t *testing.T) {
		h, m := newConfigHandler()
		m.limits.result = &dto.ActionResult{Result: dto.ResultSucceeded}

		c, w := testutil.NewTestContext(http.MethodPatch, "/api/configs/2", map[string]interface{}{
			"traffic_limit_bytes": 1073741824,
			"expires_at":          "2030-01-31",
		})
		testutil.SetURLParam(c, "id", "2")
		testutil.SetActor(c, 11)

		h.UpdateLimits(c)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, m.limits.request.TrafficLimitBytes)
		assert.Equal(t, int64(1073741824), *m.limits.request.TrafficLimitBytes)
		require.NotNil(t, m.limits.request.ExpiresAt)
		assert.Equal(t, "2030-01-31", *m.limits.request.ExpiresAt)
		assert.Equal(t, uint(11), m.limits.actor.ID)
	})

	t.Run("rejects invalid bodies", func(t *testing.T) {
		for _, body := range []interface{}{
			"{not json",
			map[string]interface{}{"traffic_limit_bytes": -5},
			map[string]interface{}{"expires_at": "31/01/2030"},
		} {
			h, m := newConfigHandler()
			c, w := testutil.NewTestContext(http.MethodPatch, "/api/configs/2", body)
			testutil.SetURLParam(c, "id", "2")

			h.UpdateLimits(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, m.limits.calls)
		}
	})
}

func TestConfigHandler_DeleteAndSync(t *testing.T) {
	h, m := newConfigHandler()
	m.deleter.result = &dto.ActionResult{Result: dto.ResultSucceededWithWarning, Warning: "panel not reachable"}
	m.syncer.result = &dto.ActionResult{Result: dto.ResultSucceeded}

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/configs/4", nil)
	testutil.SetURLParam(c, "id", "4")
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)
	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	assert.Equal(t, "panel not reachable", resp.Warning)

	c, w = testutil.NewTestContext(http.MethodPost, "/api/configs/4/sync", nil)
	testutil.SetURLParam(c, "id", "4")
	h.SyncConfig(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, m.syncer.calls)
}

func TestConfigHandler_ListEventsLimit(t *testing.T) {
	h, m := newConfigHandler()
	m.queries.events = []*dto.ConfigEventDTO{{ID: 2, Type: "auto_disabled"}, {ID: 1, Type: "created"}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/configs/9/events", nil)
	testutil.SetURLParam(c, "id", "9")
	h.ListEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultEventLimit, m.queries.limit)

	c, _ = testutil.NewTestContext(http.MethodGet, "/api/configs/9/events", nil)
	testutil.SetURLParam(c, "id", "9")
	testutil.SetQueryParams(c, map[string]string{"limit": "10000"})
	h.ListEvents(c)
	assert.Equal(t, maxEventLimit, m.queries.limit)

	resp, err := testutil.ParseResponse(w)
	require.NoError(t, err)
	var events []dto.ConfigEventDTO
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, uint(2), events[0].ID)
}
