package config

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/observer/internal/database"
)

// config.go: AppConfig carries every setting and connected resource the
// observation pipeline needs, assembled once at startup by Builder.

// AppConfig holds the resolved configuration and live resource handles
// for the observation core. Every field is read once at startup; values
// do not change without a process restart, per spec.md §6.
type AppConfig struct {
	// Server configuration for the internal manual-trigger surface.
	Port string

	// Database configuration.
	DBConn *sql.DB
	DB     *database.Queries

	// Redis configuration, backing the fetcher's de-duplication cache.
	// RedisClient is nil when REDIS_ADDR is unset, which disables caching.
	RedisClient redis.Cmdable

	// Scheduler configuration.
	CheckIntervalMinutes int
	EnableScheduler       bool

	// Fetcher configuration.
	FetchTimeoutStatic   int // seconds
	RenderTimeout        int // seconds
	RenderSettleMillis   int
	HeadlessExecPath     string // optional override for the Chromium binary
	DynamicBodySizeBytes int
	DynamicScriptRatio   float64
}

// Close releases the database and Redis connections held by the config.
func (c *AppConfig) Close() error {
	var firstErr error
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			firstErr = err
		}
	}
	if closer, ok := c.RedisClient.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
