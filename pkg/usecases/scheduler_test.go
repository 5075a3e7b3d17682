package usecases

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunSingleFlight_SkipsWhileBusy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, maxRunning, runs, skipped int32
	release := make(chan struct{})

	job := func(ctx context.Context) {
		now := atomic.AddInt32(&running, 1)
		defer atomic.AddInt32(&running, -1)
		for {
			seen := atomic.LoadInt32(&maxRunning)
			if now <= seen || atomic.CompareAndSwapInt32(&maxRunning, seen, now) {
				break
			}
		}
		atomic.AddInt32(&runs, 1)
		select {
		case <-release:
		case <-ctx.Done():
		}
	}

	runSingleFlight(ctx, "test", 5*time.Millisecond, job, func() { atomic.AddInt32(&skipped, 1) })

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&skipped) >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	close(release)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestRunSingleFlight_RecoversPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	job := func(context.Context) {
		atomic.AddInt32(&runs, 1)
		panic("tick failed")
	}

	runSingleFlight(ctx, "test", 5*time.Millisecond, job, func() {})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestRunSingleFlight_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs int32
	runSingleFlight(ctx, "test", 5*time.Millisecond, func(context.Context) { atomic.AddInt32(&runs, 1) }, func() {})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	stopped := atomic.LoadInt32(&runs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))
}
