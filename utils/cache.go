// Package utils provides utility functions and helpers used throughout the observer project.
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cache.go: Redis-based get/set-with-TTL caching service fronting the fetcher's fetch path.

// CacheService provides Redis-based caching functionality.
type CacheService struct {
	client redis.Cmdable
}

// NewCacheService creates a new CacheService instance using the provided Redis client.
func NewCacheService(client redis.Cmdable) *CacheService {
	return &CacheService{
		client: client,
	}
}

// Get retrieves a value from cache by key and unmarshals it into the provided destination.
// Returns true if the key exists, false otherwise.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil // Key doesn't exist
	}
	if err != nil {
		return false, fmt.Errorf("cache get error: %w", err)
	}

	// Unmarshal the JSON value into the destination
	err = json.Unmarshal([]byte(val), dest)
	if err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return true, nil
}

// Set stores a value in cache under the given key, marshaling it as JSON, with the specified TTL.
func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	// Marshal the value to JSON
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	// Store in Redis with TTL
	err = c.client.Set(ctx, key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}
