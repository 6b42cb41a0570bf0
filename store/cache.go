package store

import (
	"context"
	"sync"
	"time"
)

// NoCache disables snapshot caching.
type NoCache struct{}

func (NoCache) Get(context.Context, Table) ([]Record, bool) { return nil, false }
func (NoCache) Set(context.Context, Table, []Record)        {}
func (NoCache) Invalidate(context.Context, Table)           {}

type snapshot struct {
	records   []Record
	expiresAt time.Time
}

// MemoryCache keeps table snapshots in process for ttl.
type MemoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[Table]snapshot
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, items: map[Table]snapshot{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, t Table) ([]Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[t]
	if !ok || c.now().After(s.expiresAt) {
		return nil, false
	}
	return cloneRecords(s.records), true
}

func (c *MemoryCache) Set(_ context.Context, t Table, records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[t] = snapshot{records: cloneRecords(records), expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, t Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, t)
}
