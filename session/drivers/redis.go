package drivers

import (
	"context"
	"errors"
	"time"

	"github.com/creastat/espace-cours/session"
	"github.com/redis/go-redis/v9"
)

const (
	// Default TTL for record keys (24 hours)
	defaultTTL = 24 * time.Hour
)

// RedisStore implements session.Store using Redis string keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a new Redis-based store. Keys are stored as
// prefix+key and expire after ttl without reads.
func NewRedisStore(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

// Get implements session.Store.
// Returns nil if the key is not found (not an error).
// Refreshes TTL on every read.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	k := s.key(key)
	val, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	// Refresh TTL on read; a failed refresh does not fail the read
	_ = s.client.Expire(ctx, k, s.ttl).Err()

	return val, nil
}

// Set implements session.Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

// Delete implements session.Store.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.key(key)
	}
	return s.client.Del(ctx, prefixed...).Err()
}

// Close implements session.Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a record key.
func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

var _ session.Store = (*RedisStore)(nil)
