package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/matlens/backend/internal/domain"
)

// item is a single cached value with its expiration.
type item struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-memory cache with TTL support. Values are
// stored as JSON so behavior matches the redis implementation exactly.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
}

// NewMemory creates a new in-memory cache and starts a janitor that
// sweeps expired entries every 10 minutes.
func NewMemory() *Memory {
	c := &Memory{items: make(map[string]item)}
	go c.sweep()
	return c
}

// Get unmarshals the cached value under key into dest.
func (c *Memory) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expiresAt) {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(it.data, dest)
}

// Set stores value under key for the given TTL.
func (c *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items[key] = item{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes the value under key.
func (c *Memory) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Len returns the current number of items, expired or not.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Memory) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, it := range c.items {
			if now.After(it.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
