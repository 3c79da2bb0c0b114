package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process cache implementation. Entries live as long as
// the MemoryCache does.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

// Get retrieves a copy of the entry stored under name.
func (c *MemoryCache) Get(_ context.Context, name string) ([]byte, bool, error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	data, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data under name.
func (c *MemoryCache) Set(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[name] = append([]byte(nil), data...)
	c.mu.Unlock()

	return nil
}

// Delete removes an entry. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, name string) error {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Names returns the stored entry names in no particular order.
func (c *MemoryCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
