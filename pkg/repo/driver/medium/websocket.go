package medium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	uuidLib "github.com/google/uuid"
	"github.com/gorilla/websocket"

	"kidsclub/pkg/entities"
	"kidsclub/utilities"
)

type ErrWSConnAbsent struct {
	Message string
	ID      string
}

func (e *ErrWSConnAbsent) Error() string {
	return fmt.Sprintf("%s, ID: %s", e.Message, e.ID)
}

// Socket keeps the open notification windows of every phone
type Socket struct {
	*sync.RWMutex
	ConnSet map[string]*UserConnObject
}

type UserConnObject struct {
	ConnObjs    []*ConnObject
	LastChecked time.Time
}

type ConnObject struct {
	ID    string
	Conn  *websocket.Conn
	Close chan struct{}
	// gorilla connections allow a single concurrent writer
	writeLock sync.Mutex
	closeOnce sync.Once
}

// Frame is written to the window for every rendered notification
type Frame struct {
	Kind    string                `json:"kind"`
	Payload *entities.PushPayload `json:"payload"`
	Click   entities.ClickMessage `json:"click"`
}

const (
	pingInterval = time.Second * 30
	writeWait    = time.Second * 10

	frameKindNotification = "notification"
)

func (c *ConnObject) write(messageType int, data []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

func (c *ConnObject) shutdown() {
	c.closeOnce.Do(func() { close(c.Close) })
}

func NewWebSocket() *Socket {
	return &Socket{
		RWMutex: new(sync.RWMutex),
		ConnSet: make(map[string]*UserConnObject),
	}
}

func Upgrade(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || utilities.ContainsString(allowedOrigins, "*") ||
				utilities.ContainsString(allowedOrigins, origin)
		},
	}
}

// Add registers the connection and keeps it alive until it dies or ctx ends
func (s *Socket) Add(ctx context.Context, phone string, newUserConn *websocket.Conn) {
	log := utilities.NewLoggerWithFields(
		"websocket.Add", map[string]interface{}{
			"phone": utilities.MaskPhone(phone),
		},
	)

	connObj := &ConnObject{
		Conn:  newUserConn,
		Close: make(chan struct{}),
		ID:    uuidLib.NewString(),
	}

	s.Lock()
	if _, ok := s.ConnSet[phone]; !ok {
		s.ConnSet[phone] = &UserConnObject{
			ConnObjs: make([]*ConnObject, 0),
		}
	}
	s.ConnSet[phone].ConnObjs = append(s.ConnSet[phone].ConnObjs, connObj)
	total := len(s.ConnSet[phone].ConnObjs)
	s.Unlock()

	log.Debugf("Adding new ws connection %s, total conns: %d", connObj.ID, total)

	thisConn := connObj.Conn
	_ = thisConn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	thisConn.SetPongHandler(func(string) error {
		return thisConn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})

	// control frames are only processed while reading
	go func() {
		defer connObj.shutdown()
		for {
			_, message, err := thisConn.ReadMessage()
			if err != nil {
				closeErr := &websocket.CloseError{}
				if !errors.As(err, &closeErr) {
					log.WithError(err).Debug("ws read ended")
				}
				return
			}

			var click entities.ClickMessage
			if json.Unmarshal(message, &click) == nil && click.Type != "" {
				log.Debugf("window reported %s to %s", click.Type, click.URL)
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer func() {
			log.Infof("Closing the ws connection %s", connObj.ID)
			ticker.Stop()
			err := connObj.write(
				websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			if err != nil {
				log.WithError(err).Debug("sending close msg failed")
			}
			s.Remove(phone, connObj.ID)
		}()

		for {
			if err := connObj.write(websocket.PingMessage, []byte{}); err != nil {
				log.WithError(err).Errorf("ping failed, conn: %s", connObj.ID)
				return
			}

			s.Lock()
			if userConn, ok := s.ConnSet[phone]; ok {
				userConn.LastChecked = time.Now()
			}
			s.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-connObj.Close:
				log.Debugf("Received close for %s", connObj.ID)
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Socket) Remove(phone string, connID string) {
	log := utilities.NewLoggerWithFields(
		"websocket.Remove", map[string]interface{}{
			"phone": utilities.MaskPhone(phone),
		},
	)

	s.Lock()
	defer s.Unlock()
	userConnObj, ok := s.ConnSet[phone]
	if !ok || userConnObj == nil {
		return
	}

	acceptedConns := make([]*ConnObject, 0)
	for _, connObj := range userConnObj.ConnObjs {
		if connObj.ID == connID {
			if err := connObj.Conn.Close(); err != nil {
				log.WithError(err).Debug("error closing ws conn")
			}
			connObj.shutdown()
			continue
		}
		acceptedConns = append(acceptedConns, connObj)
	}

	if len(acceptedConns) == 0 {
		delete(s.ConnSet, phone)
	} else {
		userConnObj.ConnObjs = acceptedConns
	}
}

// Connections reports how many windows the phone has open
func (s *Socket) Connections(phone string) int {
	s.RLock()
	defer s.RUnlock()

	if userConnObj, ok := s.ConnSet[phone]; ok {
		return len(userConnObj.ConnObjs)
	}
	return 0
}

// Render writes the payload to every open window of the phone
func (s *Socket) Render(phone string, payload *entities.PushPayload) error {
	log := utilities.NewLoggerWithFields(
		"websocket.Render", map[string]interface{}{
			"phone": utilities.MaskPhone(phone),
		},
	)

	s.RLock()
	userConnObj, ok := s.ConnSet[phone]
	var connObjs []*ConnObject
	if ok && userConnObj != nil {
		connObjs = append(connObjs, userConnObj.ConnObjs...)
	}
	s.RUnlock()

	if len(connObjs) == 0 {
		return &ErrWSConnAbsent{
			Message: "ws connection absent",
			ID:      utilities.MaskPhone(phone),
		}
	}

	data, err := json.Marshal(Frame{
		Kind:    frameKindNotification,
		Payload: payload,
		Click:   ClickMessageFor(payload),
	})
	if err != nil {
		return err
	}

	sent := false
	var pushErrors []string
	for _, connObj := range connObjs {
		if err = connObj.write(websocket.TextMessage, data); err != nil {
			pushErrors = append(pushErrors, err.Error())
			continue
		}
		sent = true
	}

	if !sent {
		return fmt.Errorf("ws render failed: %s", strings.Join(pushErrors, ":"))
	}

	log.Debugf("rendered %s on %d windows", payload.Data["type"], len(connObjs))

	return nil
}
