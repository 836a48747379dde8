package geocode

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedResult records the last outcome for a distinct query string.
// Failed outcomes are cached too so a known-bad query is not retried
// within the same run.
type CachedResult struct {
	Result *Result
	Failed bool
}

// Cache stores one entry per exact query string. Implementations must be
// safe for the check-then-insert sequence used by CachedClient.
type Cache interface {
	Get(ctx context.Context, query string) (*CachedResult, bool, error)
	Put(ctx context.Context, query string, res *CachedResult) error
}

// MemoryCache is a run-scoped in-memory Cache. It is handed to the planner
// explicitly; there is deliberately no package-level instance.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]*CachedResult
}

// NewMemoryCache creates an empty run-scoped cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]*CachedResult)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, query string) (*CachedResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.m[query]
	return res, ok, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, query string, res *CachedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[query] = res
	return nil
}

// Len returns the number of distinct queries cached.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// CachedClient wraps a Client with a Cache so identical query strings share
// one cache entry and at most one external call. The singleflight group
// keeps the invariant even when callers overlap: concurrent lookups of the
// same query coalesce into a single upstream request.
type CachedClient struct {
	client Client
	cache  Cache
	group  singleflight.Group

	mu     sync.Mutex
	calls  int
	hits   int
	misses int
}

// NewCachedClient wraps client with cache.
func NewCachedClient(client Client, cache Cache) *CachedClient {
	return &CachedClient{client: client, cache: cache}
}

// Lookup returns the cached outcome for query, calling the upstream client
// only on a cache miss. Upstream failures are cached as failed outcomes and
// reported to the caller as (nil, false).
func (c *CachedClient) Lookup(ctx context.Context, query string) (*Result, bool) {
	if cached, ok, err := c.cache.Get(ctx, query); err == nil && ok {
		c.count(func() { c.hits++ })
		return cached.Result, !cached.Failed && cached.Result != nil && cached.Result.Matched
	} else if err != nil {
		zap.L().Warn("geocode cache: get failed", zap.Error(err))
	}

	v, err, _ := c.group.Do(query, func() (any, error) {
		// Re-check under the flight: another caller may have stored the
		// entry between our miss and this call.
		if cached, ok, err := c.cache.Get(ctx, query); err == nil && ok {
			return cached, nil
		}

		c.count(func() { c.misses++; c.calls++ })
		result, err := c.client.Lookup(ctx, query)
		entry := &CachedResult{Result: result, Failed: err != nil}
		if putErr := c.cache.Put(ctx, query, entry); putErr != nil {
			zap.L().Warn("geocode cache: put failed", zap.Error(putErr))
		}
		if err != nil {
			zap.L().Warn("geocode: lookup failed",
				zap.String("query", query),
				zap.Error(err),
			)
		}
		return entry, nil
	})
	if err != nil {
		return nil, false
	}

	entry := v.(*CachedResult)
	return entry.Result, !entry.Failed && entry.Result != nil && entry.Result.Matched
}

// Stats returns external call, hit, and miss counts for the run summary.
func (c *CachedClient) Stats() (calls, hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls, c.hits, c.misses
}

func (c *CachedClient) count(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f()
}
