package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"kidsclub/config"
	"kidsclub/pkg/consts"
)

const kvTable = `CREATE TABLE IF NOT EXISTS %s.kv_store (
	key text PRIMARY KEY,
	value blob
)`

type CassandraStore struct {
	session  *gocql.Session
	keyspace string
}

func NewCassandraStore(cfg config.DB) (*CassandraStore, error) {
	clusterConfig := gocql.NewCluster(cfg.Host)
	clusterConfig.Authenticator = gocql.PasswordAuthenticator{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clusterConfig.Consistency = gocql.Quorum
	clusterConfig.ConnectTimeout = time.Second * 10

	session, err := clusterConfig.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(`CREATE KEYSPACE IF NOT EXISTS ` + cfg.Keyspace + ` WITH REPLICATION = {'class' : 'SimpleStrategy', 'replication_factor' : 1}`).Exec()
	session.Close()
	if err != nil {
		return nil, err
	}

	clusterConfig.Keyspace = cfg.Keyspace
	session, err = clusterConfig.CreateSession()
	if err != nil {
		return nil, err
	}

	createTableCmd := fmt.Sprintf(kvTable, cfg.Keyspace)
	if err = session.Query(createTableCmd).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to exec query for db table creation, CMD: %s: %w", createTableCmd, err)
	}

	return &CassandraStore{session: session, keyspace: cfg.Keyspace}, nil
}

func (c *CassandraStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.session.Query(
		fmt.Sprintf(`SELECT value FROM %s.kv_store WHERE key = ?`, c.keyspace), key,
	).WithContext(ctx).Scan(&value)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cassandra get %s: %w", key, err)
	}

	return value, nil
}

func (c *CassandraStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	seconds := int(ttl.Seconds())
	if seconds < 0 {
		seconds = 0
	}

	err := c.session.Query(
		fmt.Sprintf(`INSERT INTO %s.kv_store (key, value) VALUES (?, ?) USING TTL ?`, c.keyspace),
		key, value, seconds,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("cassandra set %s: %w", key, err)
	}

	return nil
}

func (c *CassandraStore) Delete(ctx context.Context, key string) error {
	err := c.session.Query(
		fmt.Sprintf(`DELETE FROM %s.kv_store WHERE key = ?`, c.keyspace), key,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("cassandra delete %s: %w", key, err)
	}

	return nil
}

func (c *CassandraStore) Ping(ctx context.Context) error {
	return c.session.Query(`SELECT now() FROM system.local`).WithContext(ctx).Exec()
}

func (c *CassandraStore) Name() string {
	return consts.CassandraStore
}

func (c *CassandraStore) Close() error {
	c.session.Close()
	return nil
}
