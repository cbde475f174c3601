package scheduler

import (
	"fmt"
	"time"
)

const (
	defaultJobTimeout = 10 * time.Minute
	minInterval       = time.Second
)

type intervalSetting struct {
	key   string
	value time.Duration
}

func (s intervalSetting) validate() error {
	if s.value < minInterval {
		return fmt.Errorf("scheduler.%s must be at least %s, got %s", s.key, minInterval, s.value)
	}
	return nil
}
