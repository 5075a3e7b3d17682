package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"kidsclub/pkg/consts"
)

type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	value, found := m.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}

	stored := value.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)

	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.cache.Set(key, stored, ttl)

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Name() string {
	return consts.MemoryStore
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
