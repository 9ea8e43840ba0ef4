package idempotency

import (
	"context"
	"fmt"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient interface for Redis operations
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Service remembers the outcome of processed gateway callbacks so a
// replayed callback URL resolves to the same outcome instead of being
// re-validated and re-applied.
type Service struct {
	redis  RedisClient
	config config.Config
	logger *zap.Logger
}

// NewService creates a new idempotency service
func NewService(rdb RedisClient, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{
		redis:  rdb,
		config: cfg,
		logger: logger,
	}
}

// buildKey constructs the Redis key with prefix for processed callbacks
func (s *Service) buildKey(orderID string) string {
	return fmt.Sprintf("%s:processed_callback:%s", s.config.Redis.KeyPrefix, orderID)
}

// CheckProcessed returns the stored outcome bytes for an order's callback
// if one was already processed.
func (s *Service) CheckProcessed(ctx context.Context, orderID string) ([]byte, bool, error) {
	redisKey := s.buildKey(orderID)
	val, err := s.redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapDomainError(err, 30011, "idempotency check failed", "redis error")
	}

	return []byte(val), true, nil
}

// StoreProcessed stores the outcome bytes of a processed callback.
func (s *Service) StoreProcessed(ctx context.Context, orderID string, outcomeBytes []byte) error {
	redisKey := s.buildKey(orderID)
	ttl := time.Duration(s.config.TTL.ProcessedCallback) * time.Second
	if err := s.redis.Set(ctx, redisKey, outcomeBytes, ttl).Err(); err != nil {
		return errors.WrapDomainError(err, 30011, "idempotency storage failed", "redis error")
	}

	return nil
}
