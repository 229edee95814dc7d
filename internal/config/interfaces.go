// Package config provides configuration loading, validation, and provider
// logic for the observer service.
package config

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/observer/internal/database"
)

// interfaces.go: Interfaces for configuration providers and the config builder.

// Provider supplies configuration values from an underlying source
// (environment variables in production, an in-memory map in tests).
type Provider interface {
	GetString(key string) string
	GetStringOrDefault(key, defaultValue string) string
	GetRequiredString(key string) (string, error)
	GetInt(key string) int
	GetIntOrDefault(key string, defaultValue int) int
	GetBool(key string) bool
	GetBoolOrDefault(key string, defaultValue bool) bool
}

// DatabaseProvider connects to the relational store and returns both the
// raw pool (needed by Ingestion for transactions) and the generated
// query wrapper.
type DatabaseProvider interface {
	Connect(ctx context.Context) (*sql.DB, *database.Queries, error)
	Close() error
}

// RedisProvider connects to the fetch de-duplication cache. A nil
// RedisProvider on the builder disables the cache entirely.
type RedisProvider interface {
	Connect(ctx context.Context) (redis.Cmdable, error)
	Close() error
}

// Builder assembles an AppConfig from whichever providers are wired in,
// mirroring the teacher's fluent config builder.
type Builder interface {
	WithProvider(provider Provider) Builder
	WithDatabase(provider DatabaseProvider) Builder
	WithRedis(provider RedisProvider) Builder
	Build(ctx context.Context) (*AppConfig, error)
}
