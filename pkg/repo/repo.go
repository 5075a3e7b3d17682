package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kidsclub/pkg/repo/driver/store"
)

type Repo struct {
	store store.Store
}

type Imply interface {
	StoreHealthCheck(context.Context) error
	StoreName() string
}

func NewRepo(kv store.Store) Imply {
	return &Repo{store: kv}
}

func (repo *Repo) StoreHealthCheck(ctx context.Context) error {
	return repo.store.Ping(ctx)
}

func (repo *Repo) StoreName() string {
	return repo.store.Name()
}

// getJSON decodes the value at key into out, store.ErrNotFound is passed through
func getJSON(ctx context.Context, kv store.Store, key string, out interface{}) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}

	return nil
}

func setJSON(ctx context.Context, kv store.Store, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	return kv.Set(ctx, key, raw, ttl)
}

// getStringSet reads a JSON list, a missing key is an empty list
func getStringSet(ctx context.Context, kv store.Store, key string) ([]string, error) {
	values := make([]string, 0)
	err := getJSON(ctx, kv, key, &values)
	if errors.Is(err, store.ErrNotFound) {
		return values, nil
	}

	return values, err
}
