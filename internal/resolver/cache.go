package resolver

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entryTTL is how long a cache entry remains valid before clean_expired
// (or a lazy check on Get) evicts it (spec.md §4.6: "entries expire
// after 60 minutes").
const entryTTL = 60 * time.Minute

// ttlCache wraps an LRU cache with a parallel expiry map, since
// hashicorp/golang-lru/v2 doesn't have built-in TTL support. Grounded on
// the cache shapes spec.md §4.6 names (locations cache capacity 200,
// file-parse cache capacity 50); this wrapper is shared by both.
type ttlCache[K comparable, V any] struct {
	mu      sync.Mutex
	lru     *lru.Cache[K, V]
	expires map[K]time.Time
	now     func() time.Time
}

func newTTLCache[K comparable, V any](capacity int) *ttlCache[K, V] {
	c, err := lru.New[K, V](capacity)
	if err != nil {
		// capacity is always a positive literal at call sites; a
		// non-positive size is the only failure mode.
		panic(err)
	}
	return &ttlCache[K, V]{lru: c, expires: make(map[K]time.Time), now: time.Now}
}

func (c *ttlCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	exp, ok := c.expires[key]
	if !ok {
		return zero, false
	}
	if c.now().After(exp) {
		c.lru.Remove(key)
		delete(c.expires, key)
		return zero, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		delete(c.expires, key)
		return zero, false
	}
	return v, true
}

func (c *ttlCache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if evicted := c.lru.Add(key, value); evicted {
		// The LRU may have evicted some other key to make room; our
		// expires map is swept lazily on Get, so a stale entry for that
		// key simply falls through to a miss next time it's looked up.
		_ = evicted
	}
	c.expires[key] = c.now().Add(entryTTL)
}

// CleanExpired evicts every entry past its TTL (spec.md §4.6:
// "clean_expired may be invoked on demand").
func (c *ttlCache[K, V]) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, exp := range c.expires {
		if now.After(exp) {
			c.lru.Remove(k)
			delete(c.expires, k)
		}
	}
}
