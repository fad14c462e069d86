package prayer

import (
	"fmt"
	"sync"
	"time"

	"Niyyah-Backend/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

// DefaultCacheDuration is how long a computed PrayerInfo may be served.
const DefaultCacheDuration = 5 * time.Minute

const defaultCacheSize = 1024

// CacheKey identifies a computation: position plus calendar day.
type CacheKey struct {
	Latitude  float64
	Longitude float64
	Day       string
}

// NewCacheKey builds the key for coords on the calendar day of at.
func NewCacheKey(coords domain.Coordinates, at time.Time) CacheKey {
	return CacheKey{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Day:       domain.DateOf(at),
	}
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%v,%v,%s", k.Latitude, k.Longitude, k.Day)
}

type cacheEntry struct {
	info     domain.PrayerInfo
	cachedAt time.Time
}

// Cache holds PrayerInfo per key for a fixed validity window. Expired
// entries are never returned.
type Cache struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	duration time.Duration
	entries  *lru.Cache[CacheKey, cacheEntry]
}

// NewCache creates a cache holding at most size keys. Non-positive values
// fall back to the defaults.
func NewCache(clock clockwork.Clock, duration time.Duration, size int) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if duration <= 0 {
		duration = DefaultCacheDuration
	}
	if size <= 0 {
		size = defaultCacheSize
	}
	entries, err := lru.New[CacheKey, cacheEntry](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Cache{clock: clock, duration: duration, entries: entries}
}

// Duration returns the validity window.
func (c *Cache) Duration() time.Duration { return c.duration }

// Get returns the entry for key if it is still valid.
func (c *Cache) Get(key CacheKey) (domain.PrayerInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return domain.PrayerInfo{}, false
	}
	if !c.valid(entry, c.clock.Now()) {
		c.entries.Remove(key)
		return domain.PrayerInfo{}, false
	}
	return entry.info, true
}

// Put stores info for key as computed at cachedAt.
func (c *Cache) Put(key CacheKey, info domain.PrayerInfo, cachedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info.CachedAt = cachedAt
	c.entries.Add(key, cacheEntry{info: info, cachedAt: cachedAt})
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, key := range c.entries.Keys() {
		entry, ok := c.entries.Peek(key)
		if ok && !c.valid(entry, now) {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *Cache) valid(entry cacheEntry, now time.Time) bool {
	return now.Sub(entry.cachedAt) < c.duration
}
