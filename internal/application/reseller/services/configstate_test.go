package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
)

func TestConfigState_DisableAppliesLocallyAndRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	cfg := env.store.CreateConfig(t, r.ID(), p, "alice", 1<<30, 0)

	result, err := env.state.Apply(ctx, cfg, Disable(reseller.NoCause(), vo.EventAutoDisabled, vo.ReasonTrafficExceeded))
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Outcome.Success)
	assert.False(t, result.RemoteFailed())

	stored := env.store.Config(t, cfg.ID())
	assert.Equal(t, vo.ConfigStatusDisabled, stored.Status())
	assert.NotNil(t, stored.DisabledAt())
	assert.Equal(t, vo.CauseManuallyDisabled, stored.DisableCause().Kind, "traffic_exceeded carries no reseller marker")
	assert.Equal(t, "disabled", env.store.Factory.Client(p.ID()).RemoteStatus("alice"))

	events := env.store.EventsFor(t, cfg.ID())
	require.Len(t, events, 1)
	assert.Equal(t, vo.EventAutoDisabled, events[0].Type())
	assert.Equal(t, vo.ReasonTrafficExceeded, events[0].Reason())
	assert.Equal(t, true, events[0].Meta()["remote_success"])
	assert.Equal(t, int64(1), metaInt(events[0].Meta(), "attempts"))
	assert.Equal(t, int64(p.ID()), metaInt(events[0].Meta(), "panel_id"))
	assert.Equal(t, "marzban", events[0].Meta()["panel_type_used"])

	assert.Len(t, env.store.AuditsFor(t, vo.TargetResellerConfig, cfg.ID(), vo.ActionConfigDisabled), 1)
}

func TestConfigState_RemoteFailureStillAppliesLocally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzneshin)
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	cfg := env.store.CreateConfig(t, r.ID(), p, "bob", 1<<30, 0)
	env.store.Factory.Client(p.ID()).Fail("disable", errors.New("dial tcp: connection refused"))

	result, err := env.state.Apply(ctx, cfg, Disable(reseller.NoCause(), vo.EventManualDisabled, vo.ReasonManual))
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.RemoteFailed())
	assert.Equal(t, 3, result.Outcome.Attempts)

	assert.Equal(t, vo.ConfigStatusDisabled, env.store.Config(t, cfg.ID()).Status())
	events := env.store.EventsFor(t, cfg.ID())
	require.Len(t, events, 1)
	assert.Equal(t, false, events[0].Meta()["remote_success"])
	assert.Equal(t, int64(3), metaInt(events[0].Meta(), "attempts"))
	assert.Contains(t, events[0].Meta()["last_error"], "connection refused")
}

func TestConfigState_MissingPanelSkipsConfig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)

	cfg, err := reseller.NewConfig(r.ID(), 999, panel.TypeMarzban, "ghost", 0, nil)
	require.NoError(t, err)
	require.NoError(t, env.store.Configs.Create(ctx, cfg))

	_, err = env.state.Apply(ctx, cfg, Disable(reseller.NoCause(), vo.EventAutoDisabled, vo.ReasonTrafficExceeded))
	require.Error(t, err)
	assert.True(t, panel.IsMissingConfiguration(err))

	assert.Equal(t, vo.ConfigStatusActive, env.store.Config(t, cfg.ID()).Status())
	assert.Empty(t, env.store.EventsFor(t, cfg.ID()))
}

func TestConfigState_MissingCredentialsSkipsConfig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := panel.NewPanel("nocreds", panel.TypeOVPanel, "http://ov.invalid", "admin", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.Panels.Create(ctx, p))
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	cfg := env.store.CreateConfig(t, r.ID(), p, "carol", 0, 0)

	_, err = env.state.Apply(ctx, cfg, Enable(vo.EventManualEnabled, vo.ReasonManual))
	assert.ErrorIs(t, err, panel.ErrCredentialsMissing)
}

func TestConfigState_ConcurrentDisableIsAppliedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	created := env.store.CreateConfig(t, r.ID(), p, "dave", 1<<30, 0)

	first := env.store.Config(t, created.ID())
	second := env.store.Config(t, created.ID())

	transition := Disable(reseller.NewDisableCause(vo.CauseQuotaExhausted, r.ID()), vo.EventAutoDisabled, vo.ReasonResellerQuotaExhausted)

	res1, err := env.state.Apply(ctx, first, transition)
	require.NoError(t, err)
	assert.True(t, res1.Changed)

	res2, err := env.state.Apply(ctx, second, transition)
	require.NoError(t, err)
	assert.False(t, res2.Changed, "the reloaded config is already disabled")

	stored := env.store.Config(t, created.ID())
	assert.Equal(t, 2, stored.Version())
	assert.Len(t, env.store.EventsFor(t, created.ID()), 1)
	assert.Len(t, env.store.AuditsFor(t, vo.TargetResellerConfig, created.ID(), vo.ActionConfigDisabled), 1)
}

func TestConfigState_ConflictReappliesOnFreshCopy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	created := env.store.CreateConfig(t, r.ID(), p, "erin", 1<<30, 0)

	stale := env.store.Config(t, created.ID())
	fresh := env.store.Config(t, created.ID())
	fresh.RecordUsage(500, time.Now().UTC())
	require.NoError(t, env.store.Configs.Update(ctx, fresh))

	result, err := env.state.Apply(ctx, stale, Transition{
		Apply: func(c *reseller.Config, now time.Time) bool {
			return c.Disable(reseller.NoCause(), now)
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 3, result.Config.Version())

	stored := env.store.Config(t, created.ID())
	assert.Equal(t, vo.ConfigStatusDisabled, stored.Status())
	assert.Equal(t, int64(500), stored.UsageBytes(), "the concurrent usage write survives")
	assert.Empty(t, env.store.EventsFor(t, created.ID()))
}

func TestConfigState_ReloginOnExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeXUI)
	r := env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10<<30, nil)
	cfg := env.store.CreateConfig(t, r.ID(), p, "frank@example", 0, 0)

	client := env.store.Factory.Client(p.ID())
	client.ExpireSession()

	result, err := env.state.Apply(ctx, cfg, Disable(reseller.NoCause(), vo.EventManualDisabled, vo.ReasonManual))
	require.NoError(t, err)
	assert.True(t, result.Outcome.Success)
	assert.Equal(t, 1, result.Outcome.Attempts)
	assert.Equal(t, 1, client.Logins())
	assert.Equal(t, 2, client.CountCalls("disable"))
}
