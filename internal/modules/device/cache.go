package device

import (
	"context"
	"log"
	"sync"
	"time"

	"fleetcard/internal/types"
)

// Cache is the process-wide device store. Refresh replaces the whole
// collection; concurrent refreshes are last-writer-wins.
type Cache struct {
	mu      sync.RWMutex
	devices map[types.ID]Device
}

func NewCache() *Cache {
	return &Cache{devices: make(map[types.ID]Device)}
}

func (c *Cache) Get(id types.ID) (Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.devices[id]
	return d, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.devices)
}

func (c *Cache) Refresh(s Snapshot) {
	next := make(map[types.ID]Device, len(s))
	for _, d := range s {
		next[d.ID] = d
	}
	c.mu.Lock()
	c.devices = next
	c.mu.Unlock()
}

// Lister fetches the full device list.
type Lister interface {
	ListDevices(ctx context.Context) (Snapshot, error)
}

// Sync loads the device list once into the cache.
func (c *Cache) Sync(ctx context.Context, l Lister) error {
	s, err := l.ListDevices(ctx)
	if err != nil {
		return err
	}
	c.Refresh(s)
	return nil
}

// RunRefresher re-syncs the cache every interval until ctx is done.
func (c *Cache) RunRefresher(ctx context.Context, l Lister, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Sync(ctx, l); err != nil {
				log.Printf("device refresh: %v", err)
			}
		}
	}
}
