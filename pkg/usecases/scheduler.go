package usecases

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"kidsclub/utilities"
)

// NotificationScheduler runs the eligibility engine every interval until ctx ends
func NotificationScheduler(ctx context.Context, usecase *NotificationUsecases, interval time.Duration) {
	runSingleFlight(ctx, "NotificationScheduler", interval, usecase.Tick, usecase.metrics.TicksSkipped.Inc)
}

// SentLogPruner drops expired dedup keys every interval until ctx ends
func SentLogPruner(ctx context.Context, usecase *NotificationUsecases, interval time.Duration) {
	runSingleFlight(ctx, "SentLogPruner", interval, usecase.PruneSentLogs, func() {})
}

// runSingleFlight starts job on every tick unless the previous run is still going,
// in which case the tick is dropped and onSkip is called
func runSingleFlight(
	ctx context.Context, name string, interval time.Duration, job func(context.Context), onSkip func(),
) {
	log := utilities.NewLogger(name)

	ticker := time.NewTicker(interval)

	go func() {
		runOnce := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				log.Info("Terminating...")
				ticker.Stop()
				return
			case <-ticker.C:
				select {
				// at any point of time, no more than one go routine should run
				case runOnce <- struct{}{}:
					go runGuarded(ctx, name, job, runOnce)
				default:
					log.Warn("previous run still in progress, skipping tick")
					onSkip()
				}
			}
		}
	}()
}

func runGuarded(ctx context.Context, name string, job func(context.Context), runOnce chan struct{}) {
	log := utilities.NewLogger(name)

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("%v", r)).Errorf("run panicked\n%s", debug.Stack())
		}
		<-runOnce
	}()

	job(ctx)
}
