package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/logger"
)

const defaultMaxAttempts = 3

var defaultBackoff = []time.Duration{time.Second, 3 * time.Second}

// Outcome is the telemetry of one retried remote operation.
type Outcome struct {
	Success   bool
	Attempts  int
	LastError error
}

// Telemetry converts the outcome into the event meta shape.
func (o Outcome) Telemetry(p *panel.Panel) *reseller.RemoteTelemetry {
	t := &reseller.RemoteTelemetry{Success: o.Success, Attempts: o.Attempts}
	if o.LastError != nil {
		t.LastError = o.LastError.Error()
	}
	if p != nil {
		t.PanelID = p.ID()
		t.PanelType = p.Type().String()
	}
	return t
}

// scheduleBackOff yields the configured delays in order and repeats the last
// one once the list is exhausted.
type scheduleBackOff struct {
	steps []time.Duration
	next  int
}

func (b *scheduleBackOff) Reset() { b.next = 0 }

func (b *scheduleBackOff) NextBackOff() time.Duration {
	if len(b.steps) == 0 {
		return 0
	}
	i := b.next
	if i >= len(b.steps) {
		i = len(b.steps) - 1
	} else {
		b.next++
	}
	return b.steps[i]
}

// RetryExecutor runs a remote operation with bounded retries. Remote
// failures are reported through the Outcome, never as an error.
type RetryExecutor struct {
	maxAttempts int
	backoff     []time.Duration
	notify      backoff.Notify
	logger      logger.Interface
}

func NewRetryExecutor(maxAttempts int, delays []time.Duration, logger logger.Interface) *RetryExecutor {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	if delays == nil {
		delays = defaultBackoff
	}
	return &RetryExecutor{
		maxAttempts: maxAttempts,
		backoff:     delays,
		logger:      logger,
	}
}

// OnRetry registers a hook called with the failure and the delay before the
// next attempt.
func (e *RetryExecutor) OnRetry(notify backoff.Notify) *RetryExecutor {
	e.notify = notify
	return e
}

// Execute runs op up to maxAttempts times. An ErrUnauthorized result triggers
// a login through auth and one immediate re-run inside the same attempt.
// Missing configuration is returned as an error with zero attempts.
func (e *RetryExecutor) Execute(ctx context.Context, op func(ctx context.Context) error, auth panel.Authenticator) (Outcome, error) {
	var outcome Outcome

	attempt := func() (struct{}, error) {
		outcome.Attempts++

		err := op(ctx)
		if err != nil && errors.Is(err, panel.ErrUnauthorized) && auth != nil {
			if loginErr := auth.Login(ctx); loginErr != nil {
				err = loginErr
			} else {
				err = op(ctx)
			}
		}
		if err == nil {
			return struct{}{}, nil
		}
		if panel.IsMissingConfiguration(err) {
			return struct{}{}, backoff.Permanent(err)
		}

		outcome.LastError = err
		e.logger.Debugw("remote operation failed",
			"attempt", outcome.Attempts,
			"max_attempts", e.maxAttempts,
			"error", err,
		)
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(&scheduleBackOff{steps: e.backoff}),
		backoff.WithMaxTries(uint(e.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(e.notify),
	)
	if err == nil {
		return Outcome{Success: true, Attempts: outcome.Attempts}, nil
	}
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	if panel.IsMissingConfiguration(err) {
		return Outcome{LastError: err}, err
	}

	e.logger.Warnw("remote operation exhausted retries",
		"attempts", outcome.Attempts,
		"error", outcome.LastError,
	)
	return outcome, nil
}
