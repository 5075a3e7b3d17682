package medium

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
	"kidsclub/utilities"
)

type fcmSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
	SendDryRun(ctx context.Context, message *messaging.Message) (string, error)
}

type FirebaseBridge struct {
	credentialsPath string
	fcmClient       fcmSender
}

func NewFirebaseBridge(credentialsPath string) *FirebaseBridge {
	return &FirebaseBridge{credentialsPath: credentialsPath}
}

func (fb *FirebaseBridge) Initialize(ctx context.Context) error {
	opt := option.WithCredentialsFile(fb.credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("failed to created new app with config path %s: %w", fb.credentialsPath, err)
	}

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to created new messaging client: %w", err)
	}

	fb.fcmClient = fcmClient

	return nil
}

// RequestPermission validates the token with a dry run send
func (fb *FirebaseBridge) RequestPermission(ctx context.Context, token string) bool {
	log := utilities.NewLogger("firebase.RequestPermission")

	if fb.fcmClient == nil || token == "" {
		return false
	}

	_, err := fb.fcmClient.SendDryRun(ctx, &messaging.Message{
		Token: token,
		Data:  map[string]string{"type": "permission_check"},
	})
	if err != nil {
		log.WithError(err).Warn("dry run rejected delivery token")
		return false
	}

	return true
}

// GetToken returns the candidate if the provider accepts it
func (fb *FirebaseBridge) GetToken(ctx context.Context, candidate string) string {
	if !fb.RequestPermission(ctx, candidate) {
		return ""
	}
	return candidate
}

func (fb *FirebaseBridge) Push(ctx context.Context, tokens []string, payload *entities.PushPayload) error {
	log := utilities.NewLoggerWithFields("firebase.Push", map[string]interface{}{
		"type": payload.Data["type"],
	})

	if fb.fcmClient == nil {
		return errors.New("firebase bridge is not initialized")
	}
	if len(tokens) == 0 {
		return nil
	}

	msg := toFCMMessage(payload)
	var messages []*messaging.Message
	for _, token := range tokens {
		newMsg := msg
		newMsg.Token = token
		messages = append(messages, &newMsg)
	}

	resp, err := fb.fcmClient.SendEach(ctx, messages)
	if err != nil {
		return err
	}

	if resp.FailureCount > 0 {
		for _, errResp := range resp.Responses {
			if errResp != nil && errResp.Error != nil {
				log.WithError(errResp.Error).Error("failed to push firebase notification")
			}
		}
	}

	log.Debugf("firebase notification pushed to %d of %d tokens", resp.SuccessCount, len(tokens))

	return nil
}

func (fb *FirebaseBridge) Name() string {
	return consts.Firebase
}
