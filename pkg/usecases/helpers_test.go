package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"kidsclub/pkg/entities"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fakeSender struct {
	simulated bool
	fail      bool
	messages  []string
}

func (f *fakeSender) SendSMS(_ context.Context, _, msg string) error {
	if f.fail {
		return errors.New("provider down")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSender) Simulated() bool { return f.simulated }

func (f *fakeSender) Name() string { return "fake" }

type fakeBridge struct {
	mu         sync.Mutex
	permission bool
	token      string
	pushes     []*entities.PushPayload
	pushTokens [][]string
}

func (f *fakeBridge) Initialize(context.Context) error { return nil }

func (f *fakeBridge) RequestPermission(context.Context, string) bool { return f.permission }

func (f *fakeBridge) GetToken(_ context.Context, candidate string) string {
	if f.token != "" {
		return f.token
	}
	return candidate
}

func (f *fakeBridge) Push(_ context.Context, tokens []string, payload *entities.PushPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, payload)
	f.pushTokens = append(f.pushTokens, tokens)
	return nil
}

func (f *fakeBridge) Name() string { return "fake" }

func (f *fakeBridge) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

type fakeRenderer struct {
	mu       sync.Mutex
	rendered map[string][]*entities.PushPayload
	panicOn  string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{rendered: make(map[string][]*entities.PushPayload)}
}

func (f *fakeRenderer) Render(phone string, payload *entities.PushPayload) error {
	if phone == f.panicOn {
		panic("renderer exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered[phone] = append(f.rendered[phone], payload)
	return nil
}

func (f *fakeRenderer) forPhone(phone string) []*entities.PushPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rendered[phone]
}
