package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Cache is a concurrency-safe map with per-entry expiry.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
	}
}

// Get returns the value for key if present and not expired. An expired
// entry is removed on lookup.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		// Recheck: another goroutine may have replaced the entry since
		// the read lock was dropped.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the given lifetime, replacing any
// existing entry.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate removes key and reports whether it was present, expired or
// not.
func (c *Cache[T]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return ok
}

// Clear removes all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// CleanupExpired removes every expired entry and returns how many were
// dropped.
func (c *Cache[T]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns the total number of entries and how many of them are
// expired but not yet collected. It does not modify the cache.
func (c *Cache[T]) Stats() (total, expired int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := time.Now()
	total = len(c.entries)
	for _, e := range c.entries {
		if e.expired(now) {
			expired++
		}
	}
	return total, expired
}

// Len returns the number of entries, including expired ones not yet
// collected.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IsEmpty reports whether the cache holds no entries at all.
func (c *Cache[T]) IsEmpty() bool {
	return c.Len() == 0
}
