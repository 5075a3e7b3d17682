package medium

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
)

const defaultLatency = 500 * time.Millisecond

// SimulatedBridge stands in for the push provider when no credentials are configured
type SimulatedBridge struct {
	latency time.Duration
}

func NewSimulatedBridge(latency time.Duration) *SimulatedBridge {
	return &SimulatedBridge{latency: latency}
}

func (sb *SimulatedBridge) wait(ctx context.Context) bool {
	if sb.latency <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(sb.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (sb *SimulatedBridge) Initialize(ctx context.Context) error {
	sb.wait(ctx)
	return ctx.Err()
}

func (sb *SimulatedBridge) RequestPermission(ctx context.Context, _ string) bool {
	return sb.wait(ctx)
}

func (sb *SimulatedBridge) GetToken(ctx context.Context, _ string) string {
	if !sb.wait(ctx) {
		return ""
	}
	return "demo-fcm-" + uuid.NewString()
}

func (sb *SimulatedBridge) Push(_ context.Context, tokens []string, payload *entities.PushPayload) error {
	utilities.NewLogger("SimulatedBridge.Push").Infof(
		"[demo] push %q to %d tokens: %s", payload.Data["type"], len(tokens), payload.Notification.Title,
	)
	return nil
}

func (sb *SimulatedBridge) Name() string {
	return consts.Simulated
}
