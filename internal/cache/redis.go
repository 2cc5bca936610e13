package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache handles payload caching and collection run locking
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a key-value pair with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key. Returns redis.Nil error on miss.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes keys
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// GetPayload retrieves a cached scraped payload, returning ok=false on miss.
// Scraped pages are cached so per-phase retries don't re-hit rate-limited
// upstreams.
func (rc *RedisCache) GetPayload(ctx context.Context, key string) (string, bool) {
	val, err := rc.client.Get(ctx, "payload:"+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetPayload caches a scraped payload with TTL
func (rc *RedisCache) SetPayload(ctx context.Context, key, payload string, ttl time.Duration) error {
	return rc.client.Set(ctx, "payload:"+key, payload, ttl).Err()
}

// AcquireRunLock takes the collection run lock. Returns false if another run
// holds it. The TTL guards against a crashed run holding the lock forever.
func (rc *RedisCache) AcquireRunLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	return rc.client.SetNX(ctx, "collector:run_lock", runID, ttl).Result()
}

// ReleaseRunLock releases the collection run lock if this run holds it
func (rc *RedisCache) ReleaseRunLock(ctx context.Context, runID string) error {
	holder, err := rc.client.Get(ctx, "collector:run_lock").Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	if holder != runID {
		return nil
	}

	return rc.client.Del(ctx, "collector:run_lock").Err()
}
