package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/reseller/dto"
	vo "panelsync/internal/domain/reseller/valueobjects"
	apperrors "panelsync/internal/shared/errors"
)

func TestListResellers_FiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	suspended, _, _ := suspendForQuota(t, env)
	env.store.CreateReseller(t, vo.ResellerTypeTraffic, 10*gib, nil)

	all, err := env.queries.ListResellers(ctx, dto.ListResellersRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	page, err := env.queries.ListResellers(ctx, dto.ListResellersRequest{Status: "suspended"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, suspended.ID(), page.Items[0].ID)

	_, err = env.queries.ListResellers(ctx, dto.ListResellersRequest{Status: "frozen"})
	assert.Equal(t, apperrors.ErrorTypeValidation, errorType(err))
}

func TestListResellerAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	r, _, _ := suspendForQuota(t, env)

	page, err := env.queries.ListResellerAudit(ctx, r.ID(), 1, 20)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, vo.ActionResellerSuspended, page.Items[0].Action)
	assert.Nil(t, page.Items[0].ActorID)

	_, err = env.queries.ListResellerAudit(ctx, 9999, 1, 20)
	assert.Equal(t, apperrors.ErrorTypeNotFound, errorType(err))
}
