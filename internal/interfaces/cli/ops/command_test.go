package ops

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/testutil"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/config"
	httpRouter "panelsync/internal/interfaces/http"
	sharedConfig "panelsync/internal/shared/config"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// useStore points the commands at an in-memory database for one test.
func useStore(t *testing.T) *testutil.Store {
	t.Helper()
	store := testutil.NewStore(t)
	cfg := &config.Config{
		Retry: sharedConfig.RetryConfig{MaxAttempts: 1},
		Panel: sharedConfig.PanelConfig{RequestTimeout: time.Second, TokenTTL: time.Minute},
	}

	orig := openUseCases
	t.Cleanup(func() { openUseCases = orig })
	openUseCases = func(string) (*httpRouter.UseCases, func(), error) {
		c, err := httpRouter.NewContainer(store.DB, cfg, logger.NewNopLogger())
		if err != nil {
			return nil, nil, err
		}
		return c.UseCases(), c.Shutdown, nil
	}
	return store
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTopUp(t *testing.T) {
	store := useStore(t)
	r := store.CreateWalletReseller(t, 0, 100)

	out, err := execute(t, "topup", "--reference", "pay-1", "--reseller", strconv.FormatUint(uint64(r.ID()), 10), "--amount", "500")
	require.NoError(t, err)

	var resp struct {
		Credited bool  `json:"credited"`
		Balance  int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Credited)
	assert.Equal(t, int64(500), resp.Balance)
	assert.Equal(t, int64(500), store.Reseller(t, r.ID()).WalletBalance())
}

func TestTopUp_Invalid(t *testing.T) {
	useStore(t)

	_, err := execute(t, "topup", "--reference", "pay-1", "--reseller", "1")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestSync_FlagsAreExclusive(t *testing.T) {
	useStore(t)

	_, err := execute(t, "sync", "--config", "1", "--reseller", "2")
	assert.Error(t, err)
}

func TestPanelsList(t *testing.T) {
	store := useStore(t)
	store.CreatePanel(t, "marzban")

	out, err := execute(t, "panels", "list")
	require.NoError(t, err)

	var panels []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &panels))
	require.Len(t, panels, 1)
	assert.Equal(t, "marzban", panels[0]["type"])
}

func TestEnforceWindow_NothingToDo(t *testing.T) {
	store := useStore(t)
	store.CreateReseller(t, vo.ResellerTypeTraffic, 1<<30, nil)

	out, err := execute(t, "enforce-window")
	require.NoError(t, err)
	assert.Contains(t, out, `"suspended": 0`)
}
