package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
)

func TestBillWallets_ChargesDeltaOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateWalletReseller(t, 10000, 1000)
	env.store.CreateConfig(t, r.ID(), p, "u1", 0, 2*gib)

	report, err := env.billing.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Billed)
	assert.Equal(t, int64(2000), report.Charged)

	stored := env.store.Reseller(t, r.ID())
	assert.Equal(t, int64(8000), stored.WalletBalance())
	assert.Equal(t, 2*gib, stored.WalletBilledBytes())

	report, err = env.billing.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Billed)
	assert.Equal(t, int64(8000), env.store.Reseller(t, r.ID()).WalletBalance())
}

func TestBillWallets_FallsBackToDefaultPrice(t *testing.T) {
	env := newTestEnv(t)
	env.settings.Update(func(s *reseller.EnforcementSettings) {
		s.DefaultWalletPricePerGB = 300
	})
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateWalletReseller(t, 10000, 0)
	env.store.CreateConfig(t, r.ID(), p, "u1", 0, gib/2)

	report, err := env.billing.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(150), report.Charged)
	assert.Equal(t, int64(9850), env.store.Reseller(t, r.ID()).WalletBalance())
}

func TestWallet_ExhaustionSuspendsAndTopUpReactivates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeEylandoo)
	r := env.store.CreateWalletReseller(t, 1000, 1000)
	c := env.store.CreateConfig(t, r.ID(), p, "u1", 0, 2*gib)

	report, err := env.billing.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Suspended)

	stored := env.store.Reseller(t, r.ID())
	assert.Equal(t, vo.ResellerStatusSuspendedWallet, stored.Status())
	assert.Equal(t, int64(-1000), stored.WalletBalance())
	cfg := env.store.Config(t, c.ID())
	assert.Equal(t, vo.ConfigStatusDisabled, cfg.Status())
	assert.Equal(t, vo.CauseWalletExhausted, cfg.DisableCause().Kind)
	assert.Equal(t, vo.ReasonWalletBalanceExhausted, env.store.EventsFor(t, c.ID())[0].Reason())

	req := dto.TopUpWalletRequest{Reference: "pay-1", ResellerID: r.ID(), Amount: 5000}
	resp, err := env.topUp.Execute(ctx, req, admin())
	require.NoError(t, err)
	assert.True(t, resp.Credited)
	assert.True(t, resp.Reactivated)
	assert.Equal(t, int64(4000), resp.Balance)
	assert.Equal(t, "active", resp.ResellerStatus)

	cfg = env.store.Config(t, c.ID())
	assert.Equal(t, vo.ConfigStatusActive, cfg.Status())
	events := env.store.EventsFor(t, c.ID())
	assert.Equal(t, vo.EventAutoEnabled, events[0].Type())
	assert.Equal(t, vo.ReasonWalletRecharged, events[0].Reason())

	audits := env.store.AuditsFor(t, vo.TargetReseller, r.ID(), vo.ActionResellerActivated)
	require.Len(t, audits, 1)
	assert.Equal(t, vo.ReasonWalletRecharged, audits[0].Reason())
	assert.Len(t, env.store.AuditsFor(t, vo.TargetReseller, r.ID(), vo.ActionWalletTopUp), 1)

	// Replaying the same payment credits nothing.
	resp, err = env.topUp.Execute(ctx, req, admin())
	require.NoError(t, err)
	assert.False(t, resp.Credited)
	assert.True(t, resp.AlreadyComplete)
	assert.Equal(t, int64(4000), resp.Balance)
	assert.Len(t, env.store.AuditsFor(t, vo.TargetReseller, r.ID(), vo.ActionWalletTopUp), 1)
}

func TestTopUp_TooSmallKeepsResellerSuspended(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.store.CreatePanel(t, panel.TypeMarzban)
	r := env.store.CreateWalletReseller(t, 0, 1000)
	env.store.CreateConfig(t, r.ID(), p, "u1", 0, 3*gib)

	_, err := env.billing.Execute(ctx)
	require.NoError(t, err)

	resp, err := env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "pay-2", ResellerID: r.ID(), Amount: 1000}, admin())
	require.NoError(t, err)
	assert.True(t, resp.Credited)
	assert.False(t, resp.Reactivated)
	assert.Equal(t, int64(-2000), resp.Balance)
	assert.Equal(t, "suspended_wallet", resp.ResellerStatus)
}

func TestTopUp_RejectsInvalidRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	wallet := env.store.CreateWalletReseller(t, 0, 1000)
	traffic := env.store.CreateReseller(t, vo.ResellerTypeTraffic, gib, nil)

	_, err := env.topUp.Execute(ctx, dto.TopUpWalletRequest{ResellerID: wallet.ID(), Amount: 10}, admin())
	assert.Equal(t, "validation_error", string(errorType(err)))

	_, err = env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "x", ResellerID: wallet.ID(), Amount: -5}, admin())
	assert.Equal(t, "validation_error", string(errorType(err)))

	_, err = env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "x", ResellerID: traffic.ID(), Amount: 5}, admin())
	assert.Equal(t, "validation_error", string(errorType(err)))

	_, err = env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "x", ResellerID: 999, Amount: 5}, admin())
	assert.Equal(t, "not_found", string(errorType(err)))
}

func TestTopUp_ReferenceReusedForAnotherAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	r := env.store.CreateWalletReseller(t, 0, 1000)

	_, err := env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "pay-3", ResellerID: r.ID(), Amount: 100}, admin())
	require.NoError(t, err)

	_, err = env.topUp.Execute(ctx, dto.TopUpWalletRequest{Reference: "pay-3", ResellerID: r.ID(), Amount: 200}, admin())
	assert.Equal(t, "conflict", string(errorType(err)))
	assert.Equal(t, int64(100), env.store.Reseller(t, r.ID()).WalletBalance())
}
