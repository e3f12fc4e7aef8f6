package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces every key written by RedisStore.
const redisKeyPrefix = "casperflow:"

// RedisStore stores entries in Redis under the "casperflow:" key prefix.
// Expiry is delegated to Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to the server at url (redis://[user:pass@]host:port/db)
// and pings it.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("redis store: no url configured")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w: %v", opts.Addr, ErrBackend, err)
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns it from
// then on and closes it in Close.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value. Connection failures are marked retryable.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("%w: get %s: %v", ErrBackend, key, err))
	}
	return data, true, nil
}

// Set stores a value with an optional ttl.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: set %s: %v", ErrBackend, key, err))
	}
	return nil
}

// Delete removes a value.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: del %s: %v", ErrBackend, key, err))
	}
	return nil
}

// List scans for keys with prefix.
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, redisPattern(prefix), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, Retryable(fmt.Errorf("%w: scan: %v", ErrBackend, err))
	}
	slices.Sort(keys)
	return keys, nil
}

// redisPattern builds a SCAN MATCH pattern for a literal key prefix.
func redisPattern(prefix string) string {
	var b strings.Builder
	b.WriteString(redisKeyPrefix)
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}

// Backend returns "redis".
func (s *RedisStore) Backend() string { return BackendRedis }

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
