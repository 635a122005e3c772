package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront-service/models"
)

const catalogKey = "storefront:catalog"

// CatalogPayload is what the public catalog endpoint serves: the active
// sizes and the display currency.
type CatalogPayload struct {
	Sizes    []models.ProductSize `json:"sizes"`
	Currency string               `json:"currency"`
}

// CatalogCache keeps the public catalog in Redis for a short TTL. Cache
// failures are logged and treated as misses; the catalog always has the
// database to fall back on.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *CatalogCache) Get(ctx context.Context) (*CatalogPayload, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var payload CatalogPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("catalog cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return &payload, true
}

func (c *CatalogCache) Set(ctx context.Context, payload *CatalogPayload) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("catalog cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached catalog. Called after any admin write to
// sizes or settings.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
