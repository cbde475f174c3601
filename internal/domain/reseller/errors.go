package reseller

import (
	"errors"
	"fmt"
)

var (
	ErrResellerNotFound        = errors.New("reseller not found")
	ErrConfigNotFound          = errors.New("reseller config not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrConcurrentModification  = errors.New("config was modified concurrently")
	ErrConfigDeleted           = errors.New("config is deleted")
	ErrLimitBelowUsage         = errors.New("traffic limit is below current usage")
	ErrExpiryInPast            = errors.New("expiry date is before today")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrTransactionNotFound     = errors.New("wallet transaction not found")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
