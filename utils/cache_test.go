package utils

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRedisCmdable is a testify mock for redis.Cmdable, used to simulate Redis operations in CacheService tests.
type MockRedisCmdable struct {
	mock.Mock
	redis.Cmdable
}

// Get mocks the Redis GET command for testing.
func (m *MockRedisCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

// Set mocks the Redis SET command for testing.
func (m *MockRedisCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

// TestCacheService_Get tests the Get method of CacheService for:
// - Key does not exist
// - Redis error
// - Unmarshal error
// - Success
func TestCacheService_Get(t *testing.T) {
	t.Run("key does not exist", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "missing-key"
		// Simulate Redis returning redis.Nil
		cmd := redis.NewStringResult("", redis.Nil)
		mockRedis.On("Get", ctx, key).Return(cmd)

		var dest string
		found, err := cache.Get(ctx, key, &dest)
		assert.NoError(t, err)
		assert.False(t, found)
		mockRedis.AssertExpectations(t)
	})
	t.Run("redis error", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "error-key"
		errRedis := redis.NewStringResult("", assert.AnError)
		mockRedis.On("Get", ctx, key).Return(errRedis)

		var dest string
		found, err := cache.Get(ctx, key, &dest)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache get error")
		assert.False(t, found)
		mockRedis.AssertExpectations(t)
	})
	t.Run("unmarshal error", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "bad-json"
		// Simulate Redis returning a value that is not valid JSON for the dest type
		cmd := redis.NewStringResult("not-json", nil)
		mockRedis.On("Get", ctx, key).Return(cmd)

		var dest int // int can't unmarshal from "not-json"
		found, err := cache.Get(ctx, key, &dest)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache unmarshal error")
		assert.False(t, found)
		mockRedis.AssertExpectations(t)
	})

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "good-key"
		value := "hello"
		jsonVal := `"hello"`
		cmd := redis.NewStringResult(jsonVal, nil)
		mockRedis.On("Get", ctx, key).Return(cmd)

		var dest string
		found, err := cache.Get(ctx, key, &dest)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, dest)
		mockRedis.AssertExpectations(t)
	})
}

// TestCacheService_Set tests the Set method of CacheService for:
// - Marshal error
// - Redis error
// - Success
func TestCacheService_Set(t *testing.T) {
	t.Run("marshal error", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "bad-value"
		ch := make(chan int) // channels can't be marshaled to JSON
		err := cache.Set(ctx, key, ch, time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache marshal error")
	})

	t.Run("redis error", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "err-key"
		val := "data"
		jsonVal, _ := json.Marshal(val)
		cmd := redis.NewStatusResult("", assert.AnError)
		mockRedis.On("Set", ctx, key, jsonVal, time.Minute).Return(cmd)

		err := cache.Set(ctx, key, val, time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache set error")
		mockRedis.AssertExpectations(t)
	})

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		mockRedis := new(MockRedisCmdable)
		cache := NewCacheService(mockRedis)

		key := "ok-key"
		val := "data"
		jsonVal, _ := json.Marshal(val)
		cmd := redis.NewStatusResult("OK", nil)
		mockRedis.On("Set", ctx, key, jsonVal, time.Minute).Return(cmd)

		err := cache.Set(ctx, key, val, time.Minute)
		assert.NoError(t, err)
		mockRedis.AssertExpectations(t)
	})
}
