package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kidsclub/pkg/entities"
)

func TestClickURL(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		data map[string]string
		want string
	}{
		{name: "reminder", typ: "reminder", want: "/#classes"},
		{name: "expiry", typ: "expiry", want: "/#subscriptions"},
		{name: "balance", typ: "balance", want: "/#profile"},
		{name: "promotion default", typ: "promotion", want: "/#shop"},
		{name: "promotion with url", typ: "promotion", data: map[string]string{"url": "/#schedule"}, want: "/#schedule"},
		{name: "unknown", typ: "news", want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClickURL(tt.typ, tt.data))
		})
	}
}

func TestBuildPushPayload(t *testing.T) {
	n := &entities.Notification{
		Type:  "reminder",
		Title: "Скоро занятие",
		Body:  "Рисование начнётся через 25 мин.",
		Data:  map[string]string{"classId": "c1"},
	}

	payload := BuildPushPayload(n, "/icons/icon-192.png")

	assert.Equal(t, "Скоро занятие", payload.Notification.Title)
	assert.Equal(t, "/icons/icon-192.png", payload.Notification.Icon)
	assert.Equal(t, map[string]string{"classId": "c1", "type": "reminder", "url": "/#classes"}, payload.Data)
	assert.Len(t, payload.Actions, 2)
	assert.Equal(t, "open", payload.Actions[0].Action)
	assert.Equal(t, "close", payload.Actions[1].Action)

	// the source notification is left untouched
	assert.NotContains(t, n.Data, "url")

	click := ClickMessageFor(payload)
	assert.Equal(t, "NOTIFICATION_CLICK", click.Type)
	assert.Equal(t, "/#classes", click.URL)
	assert.Equal(t, payload.Data, click.Data)
}

func TestToFCMMessage(t *testing.T) {
	payload := BuildPushPayload(&entities.Notification{Type: "balance", Title: "t", Body: "b", Image: "img"}, "icon")

	msg := toFCMMessage(payload)

	assert.Equal(t, "t", msg.Notification.Title)
	assert.Equal(t, "img", msg.Notification.ImageURL)
	assert.Equal(t, "/#profile", msg.Data["url"])
	assert.Equal(t, "icon", msg.Webpush.Notification.Icon)
	assert.Len(t, msg.Webpush.Notification.Actions, 2)
}
