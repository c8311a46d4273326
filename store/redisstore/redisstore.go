// Package redisstore implements the store.KV interface on Redis.
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/userhub/go-token-service/store"
)

type Store struct {
	client *redis.Client
}

var _ store.KV = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redisstore.Set")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redisstore.Get")
	}
	return val, nil
}

// GetDel maps to the GETDEL command, so consumption of single-use records is
// atomic on the server.
func (s *Store) GetDel(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redisstore.GetDel")
	}
	return val, nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Wrap(err, "redisstore.Delete")
	}
	return removed, nil
}

// Scan walks the keyspace with cursor-based SCAN so a large sweep never
// blocks the store the way KEYS would.
func (s *Store) Scan(ctx context.Context, pattern string, batchSize int64, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, batchSize).Result()
		if err != nil {
			return errors.Wrap(err, "redisstore.Scan")
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redisstore.Ping")
	}
	return nil
}
