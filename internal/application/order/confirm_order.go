package order

import (
	"context"
	"log"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// ConfirmOrderUseCase 确认订单（PENDING → CONFIRMED）
type ConfirmOrderUseCase struct {
	orderRepo  domain.Repository
	txManager  TxManager
	emitter    event.Emitter
	orderCache Cache
}

// NewConfirmOrderUseCase 创建确认订单用例
func NewConfirmOrderUseCase(orderRepo domain.Repository, txManager TxManager, emitter event.Emitter, orderCache Cache) *ConfirmOrderUseCase {
	return &ConfirmOrderUseCase{
		orderRepo:  orderRepo,
		txManager:  txManager,
		emitter:    emitter,
		orderCache: orderCache,
	}
}

// Execute 确认订单
// userID非0时校验归属（用户只能操作自己的订单），0表示管理端调用
func (uc *ConfirmOrderUseCase) Execute(ctx context.Context, orderNo string, userID uint) (*domain.Order, error) {
	var o *domain.Order

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		// 行锁防止并发流转（如同时到达的确认和取消请求）
		o, err = uc.orderRepo.FindByOrderNoForUpdate(txCtx, orderNo)
		if err != nil {
			return err
		}
		if userID != 0 && o.UserID != userID {
			return apperrors.ErrForbidden
		}
		if err := o.Confirm(); err != nil {
			return err
		}
		return uc.orderRepo.Update(txCtx, o)
	})

	labels := map[string]string{"action": "confirm", "result": "success"}
	if err != nil {
		labels["result"] = "failure"
		metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)
		return nil, err
	}
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)

	uc.invalidateCache(ctx, orderNo)
	uc.emitter.Emit(event.NewOrderEvent(event.OrderConfirmed, o))
	log.Printf("✅ 订单已确认[%s]", orderNo)
	return o, nil
}

func (uc *ConfirmOrderUseCase) invalidateCache(ctx context.Context, orderNo string) {
	if uc.orderCache == nil {
		return
	}
	if err := uc.orderCache.Invalidate(ctx, orderNo); err != nil {
		log.Printf("⚠️ 订单缓存失效失败[%s]: %v", orderNo, err)
	}
}
