package cache

import (
	"context"
	"sort"
	"sync"

	"kidsclub/utilities"
)

// SubscriberSource persists the set of phones the engine evaluates
type SubscriberSource interface {
	GetSubscribers(ctx context.Context) ([]string, error)
	AddSubscriber(ctx context.Context, phone string) error
}

// SubscriberCache keeps the engine's phone list in memory, warmed from the store
type SubscriberCache struct {
	phones map[string]struct{}
	source SubscriberSource
	sync.RWMutex
}

func NewSubscriberCache(source SubscriberSource) *SubscriberCache {
	return &SubscriberCache{
		phones: make(map[string]struct{}),
		source: source,
	}
}

// Init loads the persisted subscribers
func (c *SubscriberCache) Init(ctx context.Context) error {
	log := utilities.NewLogger("SubscriberCache.Init")

	phones, err := c.source.GetSubscribers(ctx)
	if err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()
	for _, phone := range phones {
		c.phones[phone] = struct{}{}
	}

	log.Infof("Loaded %d subscribers", len(phones))

	return nil
}

// Add persists phone once and makes it visible to the next tick
func (c *SubscriberCache) Add(ctx context.Context, phone string) error {
	c.RLock()
	_, known := c.phones[phone]
	c.RUnlock()
	if known {
		return nil
	}

	if err := c.source.AddSubscriber(ctx, phone); err != nil {
		return err
	}

	c.Lock()
	c.phones[phone] = struct{}{}
	c.Unlock()

	return nil
}

// List returns a sorted snapshot of the subscribed phones
func (c *SubscriberCache) List() []string {
	c.RLock()
	defer c.RUnlock()

	phones := make([]string, 0, len(c.phones))
	for phone := range c.phones {
		phones = append(phones, phone)
	}
	sort.Strings(phones)

	return phones
}
