package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/internal/models"
	"gpwebpay-gateway/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient interface for Redis operations
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Repository stores payment order records and their status lifecycle.
type Repository struct {
	redis  RedisClient
	config config.Config
	logger *zap.Logger
}

// NewRepository creates a new order repository
func NewRepository(rdb RedisClient, cfg config.Config, logger *zap.Logger) *Repository {
	return &Repository{
		redis:  rdb,
		config: cfg,
		logger: logger,
	}
}

// Store persists an order record.
func (r *Repository) Store(ctx context.Context, order *models.Order) error {
	val, err := json.Marshal(order)
	if err != nil {
		return errors.WrapDomainError(err, 30020, "order serialization failed", "failed to marshal order")
	}

	ttl := time.Duration(r.config.TTL.OrderRecord) * time.Second
	if err := r.redis.Set(ctx, r.buildKey(order.ID), val, ttl).Err(); err != nil {
		return errors.WrapDomainError(err, 30011, "order store failed", "redis error")
	}

	r.logger.Debug("order stored",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// GetByID retrieves an order record by its identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	key := r.buildKey(id)
	val, err := r.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		r.logger.Debug("order not found", zap.String("order_id", id))
		return nil, errors.NewDomainError(30010, "order not found", id)
	}
	if err != nil {
		r.logger.Error("order retrieval failed", zap.String("order_id", id), zap.Error(err))
		return nil, errors.WrapDomainError(err, 30011, "order retrieval failed", "redis error")
	}

	var order models.Order
	if err := json.Unmarshal([]byte(val), &order); err != nil {
		r.logger.Error("order deserialization failed", zap.String("order_id", id), zap.Error(err))
		return nil, errors.WrapDomainError(err, 30020, "order deserialization failed", "invalid stored record")
	}

	return &order, nil
}

// UpdateStatus applies a terminal status to an order and persists it.
// The transition is guarded: only a WAITING order changes state, and
// re-applying the status an order already holds is a no-op. An order that
// already reached a different terminal status is left untouched so a
// replayed or conflicting callback can never rewrite history.
func (r *Repository) UpdateStatus(ctx context.Context, order *models.Order, status models.PaymentStatus) error {
	if order.Status == status {
		return nil
	}
	if order.IsFinal() {
		r.logger.Warn("refusing status change on finalized order",
			zap.String("order_id", order.ID),
			zap.String("current", string(order.Status)),
			zap.String("requested", string(status)),
		)
		return nil
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := r.Store(ctx, order); err != nil {
		return err
	}

	r.logger.Info("order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(status)),
	)

	return nil
}

func (r *Repository) buildKey(id string) string {
	return fmt.Sprintf("%s:order:%s", r.config.Redis.KeyPrefix, id)
}
