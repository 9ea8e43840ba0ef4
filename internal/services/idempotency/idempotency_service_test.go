package idempotency

import (
	"context"
	"testing"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func testConfig() config.Config {
	return config.Config{
		Redis: config.RedisConfig{KeyPrefix: "test-prefix"},
		TTL:   config.TTLConfig{ProcessedCallback: 86400},
	}
}

func TestIdempotencyService_CheckProcessed_NotProcessed(t *testing.T) {
	mockRedis := new(MockRedisClient)
	service := NewService(mockRedis, testConfig(), zap.NewNop())

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetErr(redis.Nil)
	mockRedis.On("Get", mock.Anything, "test-prefix:processed_callback:order-42").Return(stringCmd)

	outcome, processed, err := service.CheckProcessed(context.Background(), "order-42")

	require.NoError(t, err)
	assert.False(t, processed)
	assert.Nil(t, outcome)
}

func TestIdempotencyService_CheckProcessed_AlreadyProcessed(t *testing.T) {
	mockRedis := new(MockRedisClient)
	service := NewService(mockRedis, testConfig(), zap.NewNop())

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetVal(`{"accepted":true}`)
	mockRedis.On("Get", mock.Anything, "test-prefix:processed_callback:order-42").Return(stringCmd)

	outcome, processed, err := service.CheckProcessed(context.Background(), "order-42")

	require.NoError(t, err)
	assert.True(t, processed)
	assert.JSONEq(t, `{"accepted":true}`, string(outcome))
}

func TestIdempotencyService_CheckProcessed_RedisError(t *testing.T) {
	mockRedis := new(MockRedisClient)
	service := NewService(mockRedis, testConfig(), zap.NewNop())

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetErr(redis.ErrClosed)
	mockRedis.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(stringCmd)

	_, processed, err := service.CheckProcessed(context.Background(), "order-42")

	require.Error(t, err)
	assert.False(t, processed)
	assert.True(t, errors.IsDomainError(err))
}

func TestIdempotencyService_StoreProcessed(t *testing.T) {
	mockRedis := new(MockRedisClient)
	service := NewService(mockRedis, testConfig(), zap.NewNop())

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetVal("OK")
	mockRedis.On("Set", mock.Anything, "test-prefix:processed_callback:order-42", mock.Anything, 86400*time.Second).Return(statusCmd)

	err := service.StoreProcessed(context.Background(), "order-42", []byte(`{"accepted":true}`))

	assert.NoError(t, err)
	mockRedis.AssertExpectations(t)
}

func TestIdempotencyService_StoreProcessed_RedisError(t *testing.T) {
	mockRedis := new(MockRedisClient)
	service := NewService(mockRedis, testConfig(), zap.NewNop())

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetErr(redis.ErrClosed)
	mockRedis.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("time.Duration")).Return(statusCmd)

	err := service.StoreProcessed(context.Background(), "order-42", []byte(`{}`))

	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err))
}
