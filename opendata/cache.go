package opendata

import (
	"sync"
	"time"
)

// Clock supplies the current time to TTL caches. Tests inject a fixed
// clock to drive expiry without sleeping.
type Clock func() time.Time

// ByteCache stores opaque response bytes under string keys. Entries
// expire under the implementation's TTL policy.
type ByteCache interface {
	// Get returns the bytes stored under key, if present and fresh.
	Get(key string) ([]byte, bool)
	// Put stores data under key, resetting its lifetime.
	Put(key string, data []byte) error
}

// MemoryCache is an in-process ByteCache with a fixed TTL per entry.
// Expired entries are dropped lazily on read.
type MemoryCache struct {
	ttl   time.Duration
	clock Clock

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data     []byte
	deadline time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces the cache's time source.
func WithClock(clock Clock) MemoryOption {
	return func(c *MemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewMemoryCache creates a cache whose entries expire ttl after they
// are stored. A ttl of zero disables expiration.
func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]memoryEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interface compliance.
var _ ByteCache = (*MemoryCache)(nil)

// Get returns the bytes stored under key. An expired entry is deleted
// and reported as a miss.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock().After(e.deadline) {
		c.mu.Lock()
		// Only drop the entry we saw; a concurrent Put may have
		// refreshed it.
		if cur, ok := c.entries[key]; ok && cur.deadline.Equal(e.deadline) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Put stores data under key with a fresh deadline.
func (c *MemoryCache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, deadline: c.clock().Add(c.ttl)}
	return nil
}

// Len returns the number of entries currently held, expired ones
// included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
