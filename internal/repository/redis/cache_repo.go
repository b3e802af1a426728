package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/techstore/storefront-backend/internal/cfg"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/internal/repository/redis/converter"
	"github.com/techstore/storefront-backend/pkg/clients"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// CacheRepo кэширует товары каталога в Redis с TTL.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает закэшированные товары по ID, игнорируя промахи и логируя их
func (r *CacheRepo) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	keys := r.buildProductCacheKeys(ids)

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[string]domain.Product, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.ProductRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ID != ids[i] {
			r.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", ids[i], model.ID)
			if err := r.client.Client.Del(context.Background(), keys[i]).Err(); err != nil {
				r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}

		result[ids[i]] = *r.conv.ToEntity(&model)
	}

	return result, nil
}

// SetProducts атомарно кэширует несколько товаров с заданным TTL.
// Игнорирует ошибки сериализации/записи, логируя их.
func (r *CacheRepo) SetProducts(ctx context.Context, products []domain.Product) error {
	models := r.conv.ToArrRedisModel(products)

	pipeline := r.client.Client.Pipeline()
	for _, model := range models {
		data, err := json.Marshal(model)
		if err != nil {
			r.logger.Warnf("Failed to marshal product for caching (Product ID: %s): %v", model.ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, r.productKey(model.ID), data, r.cfg.ProductTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		r.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteProducts удаляет товары из кэша по ID
func (r *CacheRepo) DeleteProducts(ctx context.Context, ids []string) error {
	keys := r.buildProductCacheKeys(ids)

	if err := r.client.Client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// buildProductCacheKeys формирует Redis-ключи из ID товаров
func (r *CacheRepo) buildProductCacheKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}

	return keys
}

// productKey возвращает Redis-ключ для одного товара
func (r *CacheRepo) productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
