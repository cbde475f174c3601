package services

import (
	"context"
	"fmt"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/logger"
)

// UsageAggregator recomputes a reseller's cached aggregate from its configs.
type UsageAggregator struct {
	resellerRepo reseller.ResellerRepository
	configRepo   reseller.ConfigRepository
	logger       logger.Interface
}

func NewUsageAggregator(
	resellerRepo reseller.ResellerRepository,
	configRepo reseller.ConfigRepository,
	logger logger.Interface,
) *UsageAggregator {
	return &UsageAggregator{
		resellerRepo: resellerRepo,
		configRepo:   configRepo,
		logger:       logger,
	}
}

// Recompute reloads the reseller, re-sums every config it ever owned and
// persists the figure when it moved. The returned reseller carries the new
// aggregate.
func (a *UsageAggregator) Recompute(ctx context.Context, resellerID uint) (*reseller.Reseller, error) {
	r, err := a.resellerRepo.GetByID(ctx, resellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reseller: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: id=%d", reseller.ErrResellerNotFound, resellerID)
	}

	configs, err := a.configRepo.ListByReseller(ctx, resellerID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list reseller configs: %w", err)
	}

	used := reseller.AggregateUsedBytes(configs)
	previous := r.TrafficUsedBytes()
	if !r.ApplyAggregate(used) {
		return r, nil
	}

	if err := a.resellerRepo.UpdateTrafficUsed(ctx, resellerID, used); err != nil {
		return nil, err
	}

	a.logger.Debugw("reseller aggregate updated",
		"reseller_id", resellerID,
		"previous_bytes", previous,
		"used_bytes", used,
	)
	return r, nil
}
