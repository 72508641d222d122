package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"RocketClient/internal/geo"
)

// CachedElevations represents a cached elevation lookup
type CachedElevations struct {
	Elevations []*float64
	Timestamp  time.Time
}

// GenerateCacheKey generates a cache key from an ordered list of points
func GenerateCacheKey(points []geo.Point) string {
	h := sha256.New()
	for _, p := range points {
		h.Write([]byte(p.String()))
		h.Write([]byte{'|'})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Cache is a concurrency-safe store of elevation lookups with a TTL.
// A zero TTL keeps entries forever.
type Cache struct {
	entries sync.Map
	ttl     time.Duration
	now     func() time.Time
}

// New creates an empty cache
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Load returns the elevations stored under key if present and fresh
func (c *Cache) Load(key string) ([]*float64, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	cached := val.(CachedElevations)
	if c.ttl > 0 && c.now().Sub(cached.Timestamp) > c.ttl {
		c.entries.Delete(key)
		return nil, false
	}
	return cached.Elevations, true
}

// Store saves elevations under key
func (c *Cache) Store(key string, elevations []*float64) {
	c.entries.Store(key, CachedElevations{
		Elevations: elevations,
		Timestamp:  c.now(),
	})
}
