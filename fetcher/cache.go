package fetcher

import (
	"context"
	"time"

	"github.com/shelfwatch/observer/utils"
)

// cache.go: a short-TTL, Redis-backed memoization of successful fetches,
// keyed by URL, so a manual runCheck racing a scheduler tick for the
// same product doesn't fetch it twice (spec.md §5's resource-scoping
// concerns, generalized).

const cacheKeyPrefix = "fetch:"

// Cache wraps utils.CacheService with the fetcher's own TTL default. A
// nil *Cache (the zero value of Fetcher.Cache) disables caching — callers
// check for nil before using it, so this is safe to leave unset in tests.
type Cache struct {
	service *utils.CacheService
	ttl     time.Duration
}

// NewCache wraps a CacheService with a TTL, defaulting to 20s per spec.md §5.2.
func NewCache(service *utils.CacheService, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &Cache{service: service, ttl: ttl}
}

// Get returns a cached FetchResult for url, if one is still fresh.
func (c *Cache) Get(ctx context.Context, url string) (FetchResult, bool) {
	if c == nil || c.service == nil {
		return FetchResult{}, false
	}
	var result FetchResult
	ok, err := c.service.Get(ctx, cacheKeyPrefix+url, &result)
	if err != nil || !ok {
		return FetchResult{}, false
	}
	return result, true
}

// Set stores a successful FetchResult under url for the cache's TTL.
func (c *Cache) Set(ctx context.Context, url string, result FetchResult) {
	if c == nil || c.service == nil {
		return
	}
	_ = c.service.Set(ctx, cacheKeyPrefix+url, result, c.ttl)
}
