package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces remote operations of one cascade. The first Wait returns
// immediately, later ones wait for the interval.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a throttle allowing one operation per interval. A zero
// interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		return &Throttle{}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// ThrottleFactory builds a fresh Throttle for each cascade.
type ThrottleFactory func() *Throttle

func NewThrottleFactory(interval time.Duration) ThrottleFactory {
	return func() *Throttle { return NewThrottle(interval) }
}
