package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"panelsync/internal/shared/logger"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan int, 1)
	SafeGo(logger.NewNopLogger(), "worker", func() { done <- 42 })

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("function did not run")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNopLogger(), "panicking", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function did not run")
	}
}

func TestRecover_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover(logger.NewNopLogger(), "idle")
	})
}
