package scanner

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL cache for source lookups shared by scanners.
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]cacheItem[V]
	ttl      time.Duration
	maxItems int
	now      func() time.Time
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	TTL      time.Duration
	MaxItems int
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:      15 * time.Minute,
		MaxItems: 1000,
	}
}

// NewCache creates a cache. Zero values fall back to the defaults.
func NewCache[V any](cfg CacheConfig) *Cache[V] {
	d := DefaultCacheConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = d.TTL
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = d.MaxItems
	}

	return &Cache[V]{
		items:    make(map[string]cacheItem[V]),
		ttl:      cfg.TTL,
		maxItems: cfg.MaxItems,
		now:      time.Now,
	}
}

// Get retrieves an unexpired item.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || c.now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set stores an item with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores an item with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evict()
	}
	c.items[key] = cacheItem[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Len returns the number of stored items, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evict drops expired items, then the items closest to expiry until a tenth
// of the capacity is free. Must be called with the lock held.
func (c *Cache[V]) evict() {
	now := c.now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}

	target := c.maxItems - max(c.maxItems/10, 1)
	for len(c.items) > target {
		var (
			oldestKey string
			oldest    time.Time
			found     bool
		)
		for key, item := range c.items {
			if !found || item.expiresAt.Before(oldest) {
				oldestKey, oldest, found = key, item.expiresAt, true
			}
		}
		delete(c.items, oldestKey)
	}
}
