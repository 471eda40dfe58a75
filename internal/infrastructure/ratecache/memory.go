package ratecache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/ports"
)

var _ ports.RateCache = (*MemoryCache)(nil)

// MemoryCache caché de tasas en proceso con vencimiento.
type MemoryCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	expiresAt time.Time
	rate      decimal.Decimal
}

// NewMemoryCache construye la caché. ttl <= 0 la deshabilita.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, from, to string) (decimal.Decimal, bool) {
	if c == nil || c.ttl <= 0 {
		return decimal.Zero, false
	}
	k := key(from, to)
	c.mu.RLock()
	entry, ok := c.items[k]
	c.mu.RUnlock()
	if !ok {
		return decimal.Zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.items, k)
		c.mu.Unlock()
		return decimal.Zero, false
	}
	return entry.rate, true
}

func (c *MemoryCache) Set(_ context.Context, from, to string, rate decimal.Decimal) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key(from, to)] = memoryEntry{expiresAt: c.now().Add(c.ttl), rate: rate}
	c.mu.Unlock()
}

func key(from, to string) string {
	return "fx:" + from + ":" + to
}
