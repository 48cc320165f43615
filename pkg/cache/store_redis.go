package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of redis.Client the store relies on.
// Narrowed so tests can substitute a fake.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisStore persists cache entries in Redis. Namespace invalidation is
// implemented with a per-namespace version counter: every entry key
// embeds the current version, and Flush increments the counter so all
// prior entries become unreachable (and age out of Redis under its own
// eviction policy).
type RedisStore struct {
	client redisClient
	prefix string
	closer func() error
}

// NewRedisStore creates a Redis-backed cache store on top of an
// established client. prefix namespaces all keys in the Redis keyspace.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "shoplens:report-cache"
	}
	return &RedisStore{client: client, prefix: prefix, closer: client.Close}
}

// Get loads an entry from Redis.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	version, err := s.version(ctx, namespace)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.entryKey(namespace, version, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observeCacheResult(namespace, "miss")
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	observeCacheResult(namespace, "hit")
	return []byte(raw), nil
}

// Set stores an entry in Redis under the current namespace version.
func (s *RedisStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	version, err := s.version(ctx, namespace)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.entryKey(namespace, version, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Flush invalidates the namespace by bumping its version counter.
func (s *RedisStore) Flush(ctx context.Context, namespace string) error {
	if err := s.client.Incr(ctx, s.versionKey(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to flush cache namespace %s: %w", namespace, err)
	}
	observeCacheFlush(namespace)
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *RedisStore) version(ctx context.Context, namespace string) (int64, error) {
	version, err := s.client.Get(ctx, s.versionKey(namespace)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache namespace version: %w", err)
	}
	return version, nil
}

func (s *RedisStore) versionKey(namespace string) string {
	return fmt.Sprintf("%s:%s:version", s.prefix, namespace)
}

func (s *RedisStore) entryKey(namespace string, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", s.prefix, namespace, version, key)
}
