package medium

import (
	"firebase.google.com/go/v4/messaging"

	"kidsclub/pkg/consts"
	"kidsclub/pkg/entities"
)

const (
	openActionTitle  = "Открыть"
	closeActionTitle = "Закрыть"
)

// ClickURL is where a click on the notification should land
func ClickURL(notificationType string, data map[string]string) string {
	switch notificationType {
	case consts.Reminder:
		return consts.ReminderURL
	case consts.Expiry:
		return consts.ExpiryURL
	case consts.Balance:
		return consts.BalanceURL
	case consts.Promotion:
		if url := data["url"]; url != "" {
			return url
		}
		return consts.PromotionURL
	}

	return consts.DefaultURL
}

// BuildPushPayload shapes a notification into the service worker payload
func BuildPushPayload(n *entities.Notification, defaultIcon string) *entities.PushPayload {
	icon := n.Icon
	if icon == "" {
		icon = defaultIcon
	}

	data := make(map[string]string, len(n.Data)+2)
	for k, v := range n.Data {
		data[k] = v
	}
	data["type"] = n.Type
	data["url"] = ClickURL(n.Type, n.Data)

	return &entities.PushPayload{
		Notification: entities.PushNotification{
			Title: n.Title,
			Body:  n.Body,
			Icon:  icon,
			Image: n.Image,
		},
		Data: data,
		Actions: []entities.PushAction{
			{Action: consts.ActionOpen, Title: openActionTitle},
			{Action: consts.ActionClose, Title: closeActionTitle},
		},
	}
}

// ClickMessageFor is the message an open window receives when the payload is clicked
func ClickMessageFor(payload *entities.PushPayload) entities.ClickMessage {
	return entities.ClickMessage{
		Type: consts.NotificationClick,
		URL:  ClickURL(payload.Data["type"], payload.Data),
		Data: payload.Data,
	}
}

func toFCMMessage(payload *entities.PushPayload) messaging.Message {
	actions := make([]*messaging.WebpushNotificationAction, 0, len(payload.Actions))
	for _, action := range payload.Actions {
		actions = append(actions, &messaging.WebpushNotificationAction{
			Action: action.Action,
			Title:  action.Title,
		})
	}

	return messaging.Message{
		Notification: &messaging.Notification{
			Title:    payload.Notification.Title,
			Body:     payload.Notification.Body,
			ImageURL: payload.Notification.Image,
		},
		Data: payload.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:   payload.Notification.Title,
				Body:    payload.Notification.Body,
				Icon:    payload.Notification.Icon,
				Image:   payload.Notification.Image,
				Actions: actions,
			},
		},
	}
}
