// Package core holds the ports between services and adapters plus the small
// cache-backed helpers shared by several services.
package core

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides the Redis implementation.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// SetIfNotExists atomically sets a key only if it doesn't already exist.
	// Returns true if the key was set, false if it already existed.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// NotificationCacheConfig holds TTLs for NotificationCache.
type NotificationCacheConfig struct {
	UnreadTTL time.Duration
}

// NotificationCache keeps per-user unread counts and broadcast claims in the
// cache. A nil *NotificationCache or a nil repository behaves as an always-miss
// cache that grants every claim.
//
// Each cached count is tagged with the user's invalidation generation. A count
// whose tag no longer matches the current generation is a miss, so a reader
// that raced an invalidation cannot publish a stale value.
type NotificationCache struct {
	cache     CacheRepository
	unreadTTL time.Duration
}

// NewNotificationCache creates a NotificationCache; it returns nil when cache is nil.
func NewNotificationCache(cache CacheRepository, cfg NotificationCacheConfig) *NotificationCache {
	if cache == nil {
		return nil
	}
	return &NotificationCache{cache: cache, unreadTTL: cfg.UnreadTTL}
}

// UnreadLookup is the outcome of a cached unread count read. On a miss it
// carries the generation observed before the read; hand it back to
// StoreUnreadCount together with the freshly counted value.
type UnreadLookup struct {
	Count int
	Hit   bool

	generation string
	storable   bool
}

// UnreadCount reads the cached unread count of userID.
func (c *NotificationCache) UnreadCount(ctx context.Context, userID string) (UnreadLookup, error) {
	if c == nil || c.unreadTTL <= 0 {
		return UnreadLookup{}, nil
	}
	gen, err := c.cache.Get(ctx, unreadGenKey(userID))
	if err != nil {
		return UnreadLookup{}, err
	}
	out := UnreadLookup{generation: string(gen), storable: true}

	raw, err := c.cache.Get(ctx, unreadKey(userID))
	if err != nil || raw == nil {
		return out, err
	}
	tag, count, ok := strings.Cut(string(raw), ":")
	if !ok || tag != out.generation {
		return out, nil
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		// Unparseable entries are treated as a miss and overwritten on the next store.
		return out, nil
	}
	out.Count, out.Hit = n, true
	return out, nil
}

// StoreUnreadCount caches n as the unread count of userID under the
// generation seen by the preceding lookup. A lookup that failed to read the
// generation is never stored.
func (c *NotificationCache) StoreUnreadCount(ctx context.Context, userID string, seen UnreadLookup, n int) error {
	if c == nil || c.unreadTTL <= 0 || !seen.storable {
		return nil
	}
	value := seen.generation + ":" + strconv.Itoa(n)
	return c.cache.Set(ctx, unreadKey(userID), []byte(value), c.unreadTTL)
}

// InvalidateUnread starts a new generation for userID and drops the cached
// count. The generation outlives any count stored under the previous one.
func (c *NotificationCache) InvalidateUnread(ctx context.Context, userID string) error {
	if c == nil || c.unreadTTL <= 0 {
		return nil
	}
	genErr := c.cache.Set(ctx, unreadGenKey(userID), []byte(uuid.NewString()), 2*c.unreadTTL)
	_, delErr := c.cache.Delete(ctx, unreadKey(userID))
	return errors.Join(genErr, delErr)
}

// ClaimBroadcast grants the first caller for (event, jobID) within ttl.
// Later callers get false until the claim expires.
func (c *NotificationCache) ClaimBroadcast(ctx context.Context, event, jobID string, ttl time.Duration) (bool, error) {
	if c == nil || ttl <= 0 {
		return true, nil
	}
	return c.cache.SetIfNotExists(ctx, "broadcast:"+event+":"+jobID, []byte("1"), ttl)
}

// ReleaseBroadcast drops a claim so the next trigger for (event, jobID) runs
// again. Broadcasts that abort release their claim.
func (c *NotificationCache) ReleaseBroadcast(ctx context.Context, event, jobID string) error {
	if c == nil {
		return nil
	}
	_, err := c.cache.Delete(ctx, "broadcast:"+event+":"+jobID)
	return err
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}

func unreadGenKey(userID string) string {
	return "notifications:unread_gen:" + userID
}
