package order

import (
	"context"
	"log"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// PayOrderUseCase 标记支付完成（CONFIRMED → PAYMENT_COMPLETED）
// 支付动作本身发生在外部支付网关，这里只接收支付结果回调
type PayOrderUseCase struct {
	orderRepo  domain.Repository
	txManager  TxManager
	emitter    event.Emitter
	orderCache Cache
}

// NewPayOrderUseCase 创建支付回调用例
func NewPayOrderUseCase(orderRepo domain.Repository, txManager TxManager, emitter event.Emitter, orderCache Cache) *PayOrderUseCase {
	return &PayOrderUseCase{
		orderRepo:  orderRepo,
		txManager:  txManager,
		emitter:    emitter,
		orderCache: orderCache,
	}
}

// Execute 标记支付完成
func (uc *PayOrderUseCase) Execute(ctx context.Context, orderNo string) (*domain.Order, error) {
	var o *domain.Order

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByOrderNoForUpdate(txCtx, orderNo)
		if err != nil {
			return err
		}
		if err := o.MarkPaymentReceived(); err != nil {
			return err
		}
		return uc.orderRepo.Update(txCtx, o)
	})

	labels := map[string]string{"action": "pay", "result": "success"}
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
	uc.emitter.Emit(event.NewOrderEvent(event.OrderPaid, o))
	log.Printf("✅ 订单支付完成[%s]", orderNo)
	return o, nil
}
