package oracle

import (
	"context"
	"sync"
)

// Cache holds the latest pushed rate. It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	rate   Rate
	ok     bool
	feeBps uint16
}

// NewCache creates an empty cache charging feeBps.
func NewCache(feeBps uint16) *Cache {
	return &Cache{feeBps: feeBps}
}

// Set replaces the cached rate.
func (c *Cache) Set(r Rate) error {
	if r.Value == 0 {
		return ErrInvalidRate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = r
	c.ok = true
	return nil
}

// SetFeeBps replaces the platform fee. Range checks belong to the router.
func (c *Cache) SetFeeBps(bps uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feeBps = bps
}

func (c *Cache) CurrentRate(ctx context.Context) (Rate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok {
		return Rate{}, ErrNoRate
	}
	return c.rate, nil
}

func (c *Cache) PlatformFeeBps(ctx context.Context) (uint16, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feeBps, nil
}
