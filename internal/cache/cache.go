package cache

import (
	"sync"
	"time"
)

// Cache is a small in-process TTL map. The session package uses it as its
// in-memory store; tests lean on it to avoid a Redis dependency.
type Cache struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	m          map[string]entry
}

type entry struct {
	val any
	exp time.Time
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Second
	}

	return &Cache{
		defaultTTL: defaultTTL,
		m:          make(map[string]entry),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

// Set stores val under key for the cache's default TTL.
func (c *Cache) Set(key string, val any) {
	c.SetTTL(key, val, c.defaultTTL)
}

// SetTTL stores val under key with an explicit per-entry TTL.
func (c *Cache) SetTTL(key string, val any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.m[key] = entry{val: val, exp: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete reports whether a live entry was removed; an entry past its
// expiry counts as already gone.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]

	if !ok {
		return false
	}

	delete(c.m, key)

	return time.Now().Before(e.exp)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
