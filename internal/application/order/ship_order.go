package order

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/shopmall/internal/domain/inventory"
	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// ShipOrderUseCase 发货（PAYMENT_COMPLETED → SHIPPED）
//
// 发货时把每行的预留转为实际扣减（总量和预留量同减），
// 与订单状态更新同一事务。状态不是已支付时直接拒绝，不触碰库存。
type ShipOrderUseCase struct {
	orderRepo    domain.Repository
	inventorySvc *inventory.Service
	txManager    TxManager
	emitter      event.Emitter
	orderCache   Cache
}

// NewShipOrderUseCase 创建发货用例
func NewShipOrderUseCase(
	orderRepo domain.Repository,
	inventorySvc *inventory.Service,
	txManager TxManager,
	emitter event.Emitter,
	orderCache Cache,
) *ShipOrderUseCase {
	return &ShipOrderUseCase{
		orderRepo:    orderRepo,
		inventorySvc: inventorySvc,
		txManager:    txManager,
		emitter:      emitter,
		orderCache:   orderCache,
	}
}

// Execute 发货
func (uc *ShipOrderUseCase) Execute(ctx context.Context, orderNo string) (*domain.Order, error) {
	var o *domain.Order

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByOrderNoForUpdate(txCtx, orderNo)
		if err != nil {
			return err
		}
		// 先做状态流转校验，不合法时库存不被触碰
		if err := o.MarkShipped(time.Now()); err != nil {
			return err
		}

		for _, item := range o.Items {
			if _, err := uc.inventorySvc.ConfirmReservation(txCtx, item.ProductID, item.Quantity, o.OrderNo); err != nil {
				return err
			}
		}

		return uc.orderRepo.Update(txCtx, o)
	})

	labels := map[string]string{"action": "ship", "result": "success"}
	if err != nil {
		labels["result"] = "failure"
		metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)
		return nil, err
	}
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)

	if uc.orderCache != nil {
		if cerr := uc.orderCache.Invalidate(ctx, orderNo); cerr != nil {
			log.Printf("⚠️ 订单缓存失效失败[%s]: %v", orderNo, cerr)
		}
	}
	uc.emitter.Emit(event.NewOrderEvent(event.OrderShipped, o))
	log.Printf("✅ 订单已发货[%s]", orderNo)
	return o, nil
}
