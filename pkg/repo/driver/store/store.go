package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/utilities"
)

var ErrNotFound = errors.New("key not found")

// Store is the narrow key-value contract every repository is written against.
// A ttl of zero keeps the value until it is deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// New picks the driver named in store.driver
func New(ctx context.Context, conf *config.KidsClubConfModel) (Store, error) {
	log := utilities.NewLogger("store.New")

	switch conf.Store.Driver {
	case consts.MemoryStore, "":
		log.Info("using in-memory store")
		return NewMemoryStore(), nil
	case consts.RedisStore:
		log.Info("using redis store")
		return NewRedisStore(ctx, conf.Redis)
	case consts.CassandraStore:
		log.Infof("using cassandra store at %s", conf.DB.Host)
		return NewCassandraStore(conf.DB)
	}

	return nil, fmt.Errorf("unknown store driver %s", conf.Store.Driver)
}
