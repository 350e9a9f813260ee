package order

import (
	"context"
	"log"
	"time"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// DeliverOrderUseCase 签收（SHIPPED → DELIVERED，终态）
type DeliverOrderUseCase struct {
	orderRepo  domain.Repository
	txManager  TxManager
	emitter    event.Emitter
	orderCache Cache
}

// NewDeliverOrderUseCase 创建签收用例
func NewDeliverOrderUseCase(orderRepo domain.Repository, txManager TxManager, emitter event.Emitter, orderCache Cache) *DeliverOrderUseCase {
	return &DeliverOrderUseCase{
		orderRepo:  orderRepo,
		txManager:  txManager,
		emitter:    emitter,
		orderCache: orderCache,
	}
}

// Execute 标记签收
func (uc *DeliverOrderUseCase) Execute(ctx context.Context, orderNo string) (*domain.Order, error) {
	var o *domain.Order

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByOrderNoForUpdate(txCtx, orderNo)
		if err != nil {
			return err
		}
		if err := o.MarkDelivered(time.Now()); err != nil {
			return err
		}
		return uc.orderRepo.Update(txCtx, o)
	})

	labels := map[string]string{"action": "deliver", "result": "success"}
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
	uc.emitter.Emit(event.NewOrderEvent(event.OrderDelivered, o))
	log.Printf("✅ 订单已签收[%s]", orderNo)
	return o, nil
}
