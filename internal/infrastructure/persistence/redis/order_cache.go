package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/shopmall/internal/domain/order"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// orderKeyPrefix 订单缓存键前缀
const orderKeyPrefix = "shopmall:order:"

// OrderCache 订单读缓存（Cache-Aside）
// 只缓存订单号维度的详情查询；状态流转后由用例层调用Invalidate
type OrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderCache 创建订单缓存
func NewOrderCache(client *redis.Client, ttl time.Duration) *OrderCache {
	return &OrderCache{client: client, ttl: ttl}
}

// Get 读取缓存，未命中返回错误（调用方据此回源）
func (c *OrderCache) Get(ctx context.Context, orderNo string) (*order.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+orderNo).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrCacheError
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCacheError, "读取订单缓存失败")
	}

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		// 缓存内容损坏，删掉让下次回源
		c.client.Del(ctx, orderKeyPrefix+orderNo)
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCacheError, "订单缓存反序列化失败")
	}
	return &o, nil
}

// Set 写入缓存
func (c *OrderCache) Set(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCacheError, "订单缓存序列化失败")
	}
	if err := c.client.Set(ctx, orderKeyPrefix+o.OrderNo, data, c.ttl).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCacheError, "写入订单缓存失败")
	}
	return nil
}

// Invalidate 删除缓存
func (c *OrderCache) Invalidate(ctx context.Context, orderNo string) error {
	if err := c.client.Del(ctx, orderKeyPrefix+orderNo).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeCacheError, "删除订单缓存失败")
	}
	return nil
}
