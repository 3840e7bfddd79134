// Package cache provides the short-lived read cache used by the
// ticket-list path. The cache is injectable so the TTL and clock can be
// controlled in tests.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores opaque payloads under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// MemoryCache is a process-local TTL cache. There is a single logical
// writer context, so a plain mutex-guarded map is enough.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache builds a cache with the given TTL. now is optional and
// defaults to time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached payload when present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	// an expired entry is a miss but stays stored so GetStale can
	// still serve it as a last resort
	if c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Set stores the payload, replacing any previous entry (last writer wins).
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, storedAt: c.now()}
	return nil
}

// GetStale returns the payload even when expired. The fallback data
// source serves this when both transports fail so the page stays
// renderable.
func (c *MemoryCache) GetStale(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.value, true
}
