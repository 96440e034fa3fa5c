package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

// ProductCache is a read-through cache for product lookups on the hot
// cart path. A nil cache (or nil client) is a no-op, so Redis stays
// optional.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client, ttl: time.Minute}
}

func cacheKey(id string) string {
	return "product:" + id
}

func (c *ProductCache) Get(ctx context.Context, id string) *models.Product {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil
	}
	return &product
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	if c == nil || c.client == nil {
		return
	}
	if data, err := json.Marshal(product); err == nil {
		c.client.Set(ctx, cacheKey(product.ID), data, c.ttl)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, cacheKey(id))
}
