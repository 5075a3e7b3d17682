package medium

import (
	"context"

	"kidsclub/config"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
)

// Bridge talks to the hosted push provider. RequestPermission and GetToken
// fail soft: false and "" mean notifications are unavailable for the token.
type Bridge interface {
	Initialize(ctx context.Context) error
	RequestPermission(ctx context.Context, token string) bool
	GetToken(ctx context.Context, candidate string) string
	Push(ctx context.Context, tokens []string, payload *entities.PushPayload) error
	Name() string
}

// Renderer shows a payload on the user's open windows
type Renderer interface {
	Render(phone string, payload *entities.PushPayload) error
}

// NewBridge resolves the provider once, firebase when a credentials file is configured
func NewBridge(conf *config.KidsClubConfModel) Bridge {
	log := utilities.NewLogger("medium.NewBridge")

	if conf.Firebase.Path == "" {
		log.Info("firebase credentials absent, using simulated messaging bridge")
		return NewSimulatedBridge(utilities.ToDuration(conf.Notifications.SimulatedLatency, defaultLatency))
	}

	return NewFirebaseBridge(conf.Firebase.Path)
}
