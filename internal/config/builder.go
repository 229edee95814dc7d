package config

import (
	"context"
	"fmt"
)

// builder.go: Fluent configuration builder, trimmed from the teacher's
// provider/builder pattern to the settings the observation core needs.

// BuilderImpl implements Builder.
type BuilderImpl struct {
	provider Provider
	database DatabaseProvider
	redis    RedisProvider
}

// NewConfigBuilder returns an empty Builder.
func NewConfigBuilder() *BuilderImpl {
	return &BuilderImpl{}
}

// WithProvider sets the source of scalar configuration values.
func (b *BuilderImpl) WithProvider(provider Provider) Builder {
	b.provider = provider
	return b
}

// WithDatabase sets the database connection provider.
func (b *BuilderImpl) WithDatabase(provider DatabaseProvider) Builder {
	b.database = provider
	return b
}

// WithRedis sets the Redis connection provider. Omitting this leaves the
// fetch cache disabled.
func (b *BuilderImpl) WithRedis(provider RedisProvider) Builder {
	b.redis = provider
	return b
}

// Build resolves scalar settings from the Provider and, for any
// connection provider that was wired in, opens and verifies the
// connection before returning the assembled AppConfig.
func (b *BuilderImpl) Build(ctx context.Context) (*AppConfig, error) {
	if b.provider == nil {
		return nil, fmt.Errorf("config provider is required")
	}

	cfg := &AppConfig{
		Port:                 b.provider.GetStringOrDefault("PORT", "8090"),
		CheckIntervalMinutes: b.provider.GetIntOrDefault("CHECK_INTERVAL_MINUTES", 30),
		EnableScheduler:      b.provider.GetBoolOrDefault("ENABLE_SCHEDULER", true),
		FetchTimeoutStatic:   b.provider.GetIntOrDefault("FETCH_TIMEOUT_SECONDS", 30),
		RenderTimeout:        b.provider.GetIntOrDefault("RENDER_TIMEOUT_SECONDS", 60),
		RenderSettleMillis:   b.provider.GetIntOrDefault("RENDER_SETTLE_MILLIS", 1000),
		HeadlessExecPath:     b.provider.GetString("HEADLESS_EXEC_PATH"),
		DynamicBodySizeBytes: b.provider.GetIntOrDefault("DYNAMIC_BODY_SIZE_BYTES", 10*1024),
	}

	if ratioStr := b.provider.GetStringOrDefault("DYNAMIC_SCRIPT_RATIO", "0.5"); ratioStr != "" {
		var ratio float64
		if _, err := fmt.Sscanf(ratioStr, "%f", &ratio); err == nil {
			cfg.DynamicScriptRatio = ratio
		} else {
			cfg.DynamicScriptRatio = 0.5
		}
	}

	if b.database != nil {
		dbConn, dbQueries, err := b.database.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		cfg.DBConn = dbConn
		cfg.DB = dbQueries
	}

	if b.redis != nil {
		redisClient, err := b.redis.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cfg.RedisClient = redisClient
	}

	return cfg, nil
}
