package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/observer/internal/database"
)

// providers.go: Environment and connection provider implementations.

const strTrue = "true"

// EnvironmentProvider implements Provider by reading environment variables.
type EnvironmentProvider struct{}

// NewEnvironmentProvider returns a Provider backed by os.Getenv, suitable
// for production and for containerized deployments.
func NewEnvironmentProvider() *EnvironmentProvider {
	return &EnvironmentProvider{}
}

// GetString returns the environment variable's value, or "" if unset.
func (e *EnvironmentProvider) GetString(key string) string {
	return os.Getenv(key)
}

// GetStringOrDefault returns the environment variable's value, or
// defaultValue when unset or empty.
func (e *EnvironmentProvider) GetStringOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRequiredString returns the environment variable's value, or an
// error when it is unset.
func (e *EnvironmentProvider) GetRequiredString(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

// GetInt parses the environment variable as an integer, returning 0 if
// unset or unparsable.
func (e *EnvironmentProvider) GetInt(key string) int {
	return e.GetIntOrDefault(key, 0)
}

// GetIntOrDefault parses the environment variable as an integer,
// returning defaultValue if unset or unparsable.
func (e *EnvironmentProvider) GetIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

// GetBool parses the environment variable as a boolean, accepting
// "true", "1", and "yes" (case-insensitively) as true.
func (e *EnvironmentProvider) GetBool(key string) bool {
	value := strings.ToLower(os.Getenv(key))
	return value == strTrue || value == "1" || value == "yes"
}

// GetBoolOrDefault parses the environment variable as a boolean,
// returning defaultValue when unset.
func (e *EnvironmentProvider) GetBoolOrDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return e.GetBool(key)
}

// PostgresProvider implements DatabaseProvider for PostgreSQL, opened via
// lib/pq behind database/sql.
type PostgresProvider struct {
	dbURL   string
	db      *sql.DB
	sqlOpen func(driverName, dataSourceName string) (*sql.DB, error)
}

// NewPostgresProvider returns a DatabaseProvider for the given connection
// string.
func NewPostgresProvider(dbURL string) *PostgresProvider {
	return &PostgresProvider{dbURL: dbURL, sqlOpen: sql.Open}
}

// Connect opens the pool, verifies it with a ping, and wraps it in the
// generated Queries.
func (p *PostgresProvider) Connect(ctx context.Context) (*sql.DB, *database.Queries, error) {
	sqlOpen := p.sqlOpen
	if sqlOpen == nil {
		sqlOpen = sql.Open
	}
	db, err := sqlOpen("postgres", p.dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p.db = db
	return db, database.New(db), nil
}

// Close closes the pool.
func (p *PostgresProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// RedisProviderImpl implements RedisProvider for the fetcher's
// de-duplication cache.
type RedisProviderImpl struct {
	addr      string
	username  string
	password  string
	client    *redis.Client
	newClient func(opt *redis.Options) *redis.Client
}

// NewRedisProvider returns a RedisProvider for the given address.
func NewRedisProvider(addr, username, password string) *RedisProviderImpl {
	return &RedisProviderImpl{
		addr:      addr,
		username:  username,
		password:  password,
		newClient: redis.NewClient,
	}
}

// Connect creates the client and verifies it with a ping.
func (r *RedisProviderImpl) Connect(ctx context.Context) (redis.Cmdable, error) {
	newClient := r.newClient
	if newClient == nil {
		newClient = redis.NewClient
	}
	client := newClient(&redis.Options{
		Addr:     r.addr,
		Username: r.username,
		Password: r.password,
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r.client = client
	return client, nil
}

// Close closes the Redis client.
func (r *RedisProviderImpl) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
