package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/internal/models"
	"gpwebpay-gateway/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
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
		Redis: config.RedisConfig{
			KeyPrefix: "test-prefix",
		},
		TTL: config.TTLConfig{
			OrderRecord: 2592000,
		},
	}
}

func testOrder() *models.Order {
	return &models.Order{
		ID:         "order-42",
		Total:      decimal.RequireFromString("120.00"),
		Currency:   "USD",
		Status:     models.StatusWaiting,
		SuccessURL: "https://merchant.example.com/thanks",
		FailureURL: "https://merchant.example.com/failed",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestOrderRepository_Store_Success(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetVal("OK")
	mockRedis.On("Set", mock.Anything, "test-prefix:order:order-42", mock.Anything, 2592000*time.Second).Return(statusCmd)

	err := repo.Store(context.Background(), testOrder())

	assert.NoError(t, err)
	mockRedis.AssertExpectations(t)
}

func TestOrderRepository_Store_RedisError(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetErr(redis.ErrClosed)
	mockRedis.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("time.Duration")).Return(statusCmd)

	err := repo.Store(context.Background(), testOrder())

	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err))
	domainErr := err.(*errors.DomainError)
	assert.Equal(t, 30011, domainErr.Code)
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	stored := testOrder()
	val, err := json.Marshal(stored)
	require.NoError(t, err)

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetVal(string(val))
	mockRedis.On("Get", mock.Anything, "test-prefix:order:order-42").Return(stringCmd)

	got, err := repo.GetByID(context.Background(), "order-42")

	require.NoError(t, err)
	assert.Equal(t, "order-42", got.ID)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.True(t, stored.Total.Equal(got.Total))
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetErr(redis.Nil)
	mockRedis.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(stringCmd)

	got, err := repo.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Nil(t, got)
	domainErr := err.(*errors.DomainError)
	assert.Equal(t, 30010, domainErr.Code)
}

func TestOrderRepository_GetByID_CorruptRecord(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	stringCmd := redis.NewStringCmd(context.Background())
	stringCmd.SetVal("{not json")
	mockRedis.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(stringCmd)

	got, err := repo.GetByID(context.Background(), "order-42")

	require.Error(t, err)
	assert.Nil(t, got)
	domainErr := err.(*errors.DomainError)
	assert.Equal(t, 30020, domainErr.Code)
}

func TestOrderRepository_UpdateStatus_WaitingToConfirmed(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetVal("OK")
	mockRedis.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("time.Duration")).Return(statusCmd).Once()

	order := testOrder()
	err := repo.UpdateStatus(context.Background(), order, models.StatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.False(t, order.UpdatedAt.IsZero())
	mockRedis.AssertExpectations(t)
}

func TestOrderRepository_UpdateStatus_SameStatusIsNoOp(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	order := testOrder()
	order.Status = models.StatusConfirmed

	// No Set expectation: a repeat of the same transition must not touch Redis.
	err := repo.UpdateStatus(context.Background(), order, models.StatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	mockRedis.AssertExpectations(t)
}

func TestOrderRepository_UpdateStatus_FinalizedOrderIsNeverRewritten(t *testing.T) {
	logger := zap.NewNop()
	mockRedis := new(MockRedisClient)
	repo := NewRepository(mockRedis, testConfig(), logger)

	order := testOrder()
	order.Status = models.StatusConfirmed

	err := repo.UpdateStatus(context.Background(), order, models.StatusRejected)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	mockRedis.AssertExpectations(t)
}
