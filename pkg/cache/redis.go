package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache contract with a Redis instance so repeated
// calculations can be shared across processes. Entries expire after the
// configured TTL; a zero TTL keeps them until evicted by Redis itself.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects a cache to the Redis instance at addr.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// NewRedisWithClient wraps an existing client, e.g. one pointed at a test
// server.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the underlying client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
