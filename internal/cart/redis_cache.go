package cart

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"tour-booking-platform/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache is a Cache backed by Redis so multiple storefront instances
// share one read-cache window. Cache keys hash the bearer token; raw tokens
// never reach Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCache creates a Redis-backed cart cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "cart:" + hex.EncodeToString(sum[:16])
}

func (c *RedisCache) Get(token string) ([]models.CartLineItem, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	raw, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("cart cache read failed")
		}
		return nil, false
	}

	var items []models.CartLineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.Invalidate(token)
		return nil, false
	}
	return items, true
}

func (c *RedisCache) Set(token string, items []models.CartLineItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Set(ctx, cacheKey(token), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("cart cache write failed")
	}
}

func (c *RedisCache) Invalidate(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		c.logger.WithError(err).Warn("cart cache invalidation failed")
	}
}
