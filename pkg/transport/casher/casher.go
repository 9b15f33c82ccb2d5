// Package casher provides Redis-based caching for encoded template data.
package casher

import (
	"context"
	"fmt"

	"github.com/Koyo-os/template-service/pkg/logger"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TEMPLATE_KEY_TEMPLATE namespaces every template key under "template:".
const TEMPLATE_KEY_TEMPLATE = "template:%s"

// Casher handles caching operations using Redis as the backend.
type Casher struct {
	client *redis.Client
	logger *logger.Logger
}

// Init creates a new Casher instance with the provided Redis client and logger.
func Init(client *redis.Client, logger *logger.Logger) *Casher {
	return &Casher{
		client: client,
		logger: logger,
	}
}

func (c *Casher) Close() error {
	return c.client.Close()
}

func (c *Casher) IsHealthy() bool {
	return c.client.Ping(context.Background()).Err() == nil
}

// AddToCash stores a payload under the template key with no expiration.
// The payload is JSON-encoded before it hits Redis.
func (c *Casher) AddToCash(ctx context.Context, key string, payload any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to encode payload for cashing",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	res := c.client.Set(ctx, fmt.Sprintf(TEMPLATE_KEY_TEMPLATE, key), body, 0)

	if err := res.Err(); err != nil {
		c.logger.Error("failed to cash payload",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// GetCashFor retrieves the cached bytes for the given template key.
// A cache miss surfaces as redis.Nil.
func (c *Casher) GetCashFor(ctx context.Context, key string) ([]byte, error) {
	res := c.client.Get(ctx, fmt.Sprintf(TEMPLATE_KEY_TEMPLATE, key))
	if err := res.Err(); err != nil {
		if err != redis.Nil {
			c.logger.Error("error get cash",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, err
	}

	data, err := res.Bytes()
	if err != nil {
		c.logger.Error("error get cashed bytes",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	return data, nil
}

// RemoveFromCash evicts the template key.
func (c *Casher) RemoveFromCash(ctx context.Context, key string) error {
	res := c.client.Del(ctx, fmt.Sprintf(TEMPLATE_KEY_TEMPLATE, key))

	if err := res.Err(); err != nil {
		c.logger.Error("error delete from redis",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	return nil
}
