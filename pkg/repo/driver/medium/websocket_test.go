package medium

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/pkg/entities"
)

func TestSocket_Render(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewWebSocket()
	upgrader := Upgrade([]string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		hub.Add(ctx, r.URL.Query().Get("phone"), conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?phone=79991234567"
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Connections("79991234567") == 1 }, time.Second, 10*time.Millisecond)

	payload := BuildPushPayload(&entities.Notification{Type: "expiry", Title: "t", Body: "b"}, "")
	require.NoError(t, hub.Render("79991234567", payload))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "notification", frame.Kind)
	assert.Equal(t, "t", frame.Payload.Notification.Title)
	assert.Equal(t, "/#subscriptions", frame.Click.URL)

	client.Close()
	require.Eventually(t, func() bool { return hub.Connections("79991234567") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSocket_RenderWithoutConnections(t *testing.T) {
	hub := NewWebSocket()
	err := hub.Render("79990000000", BuildPushPayload(&entities.Notification{Type: "balance"}, ""))

	absent := &ErrWSConnAbsent{}
	assert.True(t, errors.As(err, &absent))
}
