package order

import (
	"context"
	"log"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// GetOrderUseCase 查询订单详情（Cache-Aside读路径）
//
// 读取顺序：Redis → MySQL → 回填Redis。
// 缓存任何故障都降级回源，不向调用方暴露缓存错误。
type GetOrderUseCase struct {
	orderRepo  domain.Repository
	orderCache Cache
}

// NewGetOrderUseCase 创建订单查询用例
func NewGetOrderUseCase(orderRepo domain.Repository, orderCache Cache) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo:  orderRepo,
		orderCache: orderCache,
	}
}

// Execute 查询订单
// userID非0时校验归属，非本人订单按不存在处理（不泄露他人订单号有效性）
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderNo string, userID uint) (*domain.Order, error) {
	if err := domain.ValidateOrderNo(orderNo); err != nil {
		return nil, err
	}

	if uc.orderCache != nil {
		if cached, err := uc.orderCache.Get(ctx, orderNo); err == nil && cached != nil {
			if userID != 0 && cached.UserID != userID {
				return nil, apperrors.ErrOrderNotFound
			}
			return cached, nil
		}
	}

	o, err := uc.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if userID != 0 && o.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}

	if uc.orderCache != nil {
		if err := uc.orderCache.Set(ctx, o); err != nil {
			log.Printf("⚠️ 订单缓存回填失败[%s]: %v", orderNo, err)
		}
	}

	return o, nil
}
