package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// sweepThreshold bounds the fallback map: once it grows past this many
// entries an increment also drops every expired window.
const sweepThreshold = 4096

type memoryEntry struct {
	count int64
	reset int64
}

// MemoryCounter is the process-local fallback backing. Counts are lost on
// restart, which is an accepted degradation for single-instance deployments.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, windowStart int64, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().Unix()
	entryKey := fmt.Sprintf("%s:%d", key, windowStart)

	entry, ok := c.entries[entryKey]
	if !ok || entry.reset <= now {
		entry = &memoryEntry{reset: windowStart + int64(window.Seconds())}
		c.entries[entryKey] = entry
	}
	entry.count++

	if len(c.entries) > sweepThreshold {
		c.sweepLocked(now)
	}
	return entry.count, nil
}

func (c *MemoryCounter) sweepLocked(now int64) {
	for key, entry := range c.entries {
		if entry.reset <= now {
			delete(c.entries, key)
		}
	}
}
