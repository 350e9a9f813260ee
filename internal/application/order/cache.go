package order

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
)

// Cache 订单读缓存接口
// 实现在基础设施层（Redis）。所有方法的错误由调用方降级处理：
// 缓存故障不影响主流程，直接回源数据库。
type Cache interface {
	Get(ctx context.Context, orderNo string) (*domain.Order, error)
	Set(ctx context.Context, o *domain.Order) error
	// Invalidate 状态流转后删除缓存（下次读取回源）
	Invalidate(ctx context.Context, orderNo string) error
}
