package search

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/emnesok/emnesok-api/internal/types"
)

// Outcome is the tri-state result of a cache probe. A recorded empty result
// (KnownEmpty) is not the same as never having searched (Unknown): the
// former lets the UI say "not found" without another round trip.
type Outcome int

const (
	Unknown Outcome = iota
	Hit
	KnownEmpty
)

const (
	defaultCacheCapacity = 256
	defaultCacheTTL      = 5 * time.Minute
)

type cacheEntry struct {
	results  []types.CourseInfo
	negative bool
}

// ResultCache memoizes recent query results, positive and negative, so a
// repeated query renders without waiting on the debounced search path.
// Entries expire by TTL and the cache is capacity-bounded; catalogs are
// static within a session so there is no consistency to maintain beyond
// Clear.
type ResultCache struct {
	mu       sync.Mutex
	store    *cache.Cache
	capacity int
}

// NewResultCache returns a cache holding up to capacity entries for ttl.
// Zero values select the defaults.
func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ResultCache{
		store:    cache.New(ttl, 2*ttl),
		capacity: capacity,
	}
}

// Get probes the cache. The returned slice is nil unless the outcome is Hit.
func (rc *ResultCache) Get(query, scope string) ([]types.CourseInfo, Outcome) {
	v, found := rc.store.Get(cacheKey(query, scope))
	if !found {
		return nil, Unknown
	}
	entry := v.(cacheEntry)
	if entry.negative {
		return nil, KnownEmpty
	}
	results := make([]types.CourseInfo, len(entry.results))
	copy(results, entry.results)
	return results, Hit
}

// Put records a successful search result for the query and scope.
func (rc *ResultCache) Put(query, scope string, results []types.CourseInfo) {
	copied := make([]types.CourseInfo, len(results))
	copy(copied, results)
	rc.set(cacheKey(query, scope), cacheEntry{results: copied})
}

// MarkNegative records that the query is known to have zero matches.
func (rc *ResultCache) MarkNegative(query, scope string) {
	rc.set(cacheKey(query, scope), cacheEntry{negative: true})
}

// Clear drops every entry.
func (rc *ResultCache) Clear() {
	rc.store.Flush()
}

// Len returns the number of live entries.
func (rc *ResultCache) Len() int {
	return rc.store.ItemCount()
}

func (rc *ResultCache) set(key string, entry cacheEntry) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.store.ItemCount() >= rc.capacity {
		rc.store.DeleteExpired()
	}
	// go-cache has no eviction policy of its own; drop the entry closest
	// to expiry, which under a uniform TTL is the oldest insert.
	if rc.store.ItemCount() >= rc.capacity {
		var oldestKey string
		var oldest int64
		for k, item := range rc.store.Items() {
			if oldestKey == "" || item.Expiration < oldest {
				oldestKey, oldest = k, item.Expiration
			}
		}
		if oldestKey != "" {
			rc.store.Delete(oldestKey)
		}
	}
	rc.store.SetDefault(key, entry)
}

func cacheKey(query, scope string) string {
	return strings.ToLower(strings.TrimSpace(query)) + "\x00" + strings.ToLower(strings.TrimSpace(scope))
}
