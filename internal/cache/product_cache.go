// Package cache provides a Redis read-through layer for catalogue reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const productKeyPrefix = "product:"

// NewRedisClient builds a client and checks it answers PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// productCache wraps a ProductRepository and caches single-product lookups.
// Writes go to the repository first and then drop the cached entry, so a
// reader may see a stale product for at most ttl.
type productCache struct {
	repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewProductCache decorates next with a Redis cache for GetByID and GetByIDs.
func NewProductCache(next repository.ProductRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) repository.ProductRepository {
	return &productCache{
		ProductRepository: next,
		client:            client,
		ttl:               ttl,
		logger:            logger.With().Str("cache", "product").Logger(),
	}
}

func productKey(id string) string {
	return productKeyPrefix + id
}

// GetByID serves from Redis when possible. Cache failures fall through to
// the repository.
func (c *productCache) GetByID(ctx context.Context, id string) (*model.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	switch {
	case err == nil:
		var p model.Product
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			return &p, nil
		}
		c.logger.Warn().Str("product_id", id).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	}

	p, err := c.ProductRepository.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	c.store(ctx, p)
	return p, nil
}

// GetByIDs fetches cached products with MGET and loads the rest from the repository.
func (c *productCache) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn().Err(err).Int("count", len(ids)).Msg("product cache multi-read failed")
		return c.loadAndStore(ctx, ids)
	}

	products := make([]model.Product, 0, len(ids))
	var missing []string
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var p model.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		products = append(products, p)
	}

	if len(missing) == 0 {
		return products, nil
	}

	loaded, err := c.loadAndStore(ctx, missing)
	if err != nil {
		return nil, err
	}
	return append(products, loaded...), nil
}

func (c *productCache) loadAndStore(ctx context.Context, ids []string) ([]model.Product, error) {
	products, err := c.ProductRepository.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		c.store(ctx, &products[i])
	}
	return products, nil
}

func (c *productCache) store(ctx context.Context, p *model.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn().Err(err).Str("product_id", p.ID).Msg("failed to encode product for cache")
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("product_id", p.ID).Msg("product cache write failed")
	}
}

func (c *productCache) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("product_ids", ids).Msg("product cache invalidation failed")
	}
}

func (c *productCache) Update(ctx context.Context, p *model.Product) (bool, error) {
	ok, err := c.ProductRepository.Update(ctx, p)
	if err == nil {
		c.invalidate(ctx, p.ID)
	}
	return ok, err
}

func (c *productCache) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := c.ProductRepository.Delete(ctx, id)
	if err == nil {
		c.invalidate(ctx, id)
	}
	return ok, err
}

func (c *productCache) DecrementStock(ctx context.Context, id string, quantity int) error {
	err := c.ProductRepository.DecrementStock(ctx, id, quantity)
	if err == nil {
		c.invalidate(ctx, id)
	}
	return err
}
