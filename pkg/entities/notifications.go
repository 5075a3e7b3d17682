package entities

import "time"

// Notification is one fired event, before it is shaped for a provider
type Notification struct {
	Type  string            `json:"type"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon,omitempty"`
	Image string            `json:"image,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

type PushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
}

type PushAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// PushPayload is what the service worker receives
type PushPayload struct {
	Notification PushNotification  `json:"notification"`
	Data         map[string]string `json:"data"`
	Actions      []PushAction      `json:"actions,omitempty"`
}

// ClickMessage is posted to an open window when a notification is clicked
type ClickMessage struct {
	Type string            `json:"type"`
	URL  string            `json:"url"`
	Data map[string]string `json:"data"`
}

// SentLog maps a dedup key to the time it fired
type SentLog struct {
	Entries map[string]time.Time `json:"entries"`
}

func NewSentLog() *SentLog {
	return &SentLog{Entries: make(map[string]time.Time)}
}

func (l *SentLog) Has(key string) bool {
	_, ok := l.Entries[key]
	return ok
}

func (l *SentLog) Add(key string, at time.Time) {
	l.Entries[key] = at
}

func (l *SentLog) Remove(key string) bool {
	if !l.Has(key) {
		return false
	}
	delete(l.Entries, key)
	return true
}

// Prune drops entries fired before cutoff, except the keep keys, and reports how many went
func (l *SentLog) Prune(cutoff time.Time, keep ...string) int {
	pruned := 0
	for key, firedAt := range l.Entries {
		if firedAt.Before(cutoff) && !containsKey(keep, key) {
			delete(l.Entries, key)
			pruned++
		}
	}
	return pruned
}

type TokenRequest struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	Success    bool   `json:"success"`
	Token      string `json:"token"`
	Permission bool   `json:"permission"`
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
