package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheRepo implements core.CacheRepository on Redis. Every key is
// namespaced with prefix so several deployments can share one instance.
type RedisCacheRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCacheRepo creates a new RedisCacheRepo with the given Redis client and key prefix.
func NewRedisCacheRepo(client redis.UniversalClient, prefix string) *RedisCacheRepo {
	return &RedisCacheRepo{client: client, prefix: prefix}
}

func (r *RedisCacheRepo) key(k string) (string, error) {
	if k == "" {
		return "", errors.New("key cannot be empty")
	}
	return r.prefix + k, nil
}

// Set stores a value with the given TTL; a TTL of 0 never expires.
func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := r.key(key)
	if err != nil {
		return err
	}
	if err = r.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns nil, nil for a missing key.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := r.key(key)
	if err != nil {
		return nil, err
	}
	result, err := r.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return result, nil
}

// Delete removes a key and reports whether it existed.
func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	k, err := r.key(key)
	if err != nil {
		return false, err
	}
	n, err := r.client.Del(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

// SetIfNotExists atomically sets a key only if it doesn't already exist.
func (r *RedisCacheRepo) SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	k, err := r.key(key)
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	// SETNX followed by EXPIRE is not atomic; SET NX PX is.
	status, err := r.client.SetArgs(ctx, k, value, redis.SetArgs{Mode: "NX", TTL: ttl}).Result()
	if err != nil {
		// An unmet NX condition comes back as a nil reply.
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis SET NX: %w", err)
	}
	return status == "OK", nil
}

// Health checks the health of the Redis connection.
func (r *RedisCacheRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
