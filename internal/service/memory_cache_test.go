package service

import (
	"context"
	"sync"
	"time"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
)

// memoryCache is an in-process core.CacheRepository for tests that need real
// cache semantics across several calls.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

var _ core.CacheRepository = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) live(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if ok && !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, ok
}

func (c *memoryCache) put(key string, value []byte, ttl time.Duration) {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	c.entries[key] = e
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value, ttl)
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.live(key); ok {
		return e.value, nil
	}
	return nil, nil
}

func (c *memoryCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.live(key)
	delete(c.entries, key)
	return ok, nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.live(key); ok {
		return false, nil
	}
	c.put(key, value, ttl)
	return true, nil
}

func (c *memoryCache) Health(context.Context) error { return nil }
