package order

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/shopmall/internal/domain/inventory"
	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// CancelOrderUseCase 取消订单
//
// 取消和库存释放在同一个数据库事务内完成：
// 订单行锁挡住并发的发货/取消，逐行释放预留后订单置为CANCELLED。
// 任何一步失败整体回滚，订单保持原状态。
type CancelOrderUseCase struct {
	orderRepo    domain.Repository
	inventorySvc *inventory.Service
	txManager    TxManager
	emitter      event.Emitter
	orderCache   Cache
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo domain.Repository,
	inventorySvc *inventory.Service,
	txManager TxManager,
	emitter event.Emitter,
	orderCache Cache,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:    orderRepo,
		inventorySvc: inventorySvc,
		txManager:    txManager,
		emitter:      emitter,
		orderCache:   orderCache,
	}
}

// Execute 取消订单并释放全部预留
func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderNo string, userID uint) (*domain.Order, error) {
	var o *domain.Order
	var released []event.Event

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByOrderNoForUpdate(txCtx, orderNo)
		if err != nil {
			return err
		}
		if userID != 0 && o.UserID != userID {
			return apperrors.ErrForbidden
		}
		if err := o.Cancel(time.Now()); err != nil {
			return err
		}

		// 逐行释放预留，与订单状态更新同一事务
		released = released[:0]
		for _, item := range o.Items {
			inv, err := uc.inventorySvc.Release(txCtx, item.ProductID, item.Quantity, o.OrderNo)
			if err != nil {
				return err
			}
			released = append(released, event.NewStockEvent(event.StockReleased, event.StockEventPayload{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Available: inv.Available(),
				Reference: o.OrderNo,
			}))
		}

		return uc.orderRepo.Update(txCtx, o)
	})

	labels := map[string]string{"action": "cancel", "result": "success"}
	if err != nil {
		labels["result"] = "failure"
		metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)
		return nil, err
	}
	metrics.IncCounterVec(metrics.OrderTransitionsTotal, labels)
	for range released {
		metrics.IncCounter(metrics.StockReleasesTotal)
	}

	if uc.orderCache != nil {
		if cerr := uc.orderCache.Invalidate(ctx, orderNo); cerr != nil {
			log.Printf("⚠️ 订单缓存失效失败[%s]: %v", orderNo, cerr)
		}
	}

	uc.emitter.Emit(event.NewOrderEvent(event.OrderCancelled, o))
	for _, e := range released {
		uc.emitter.Emit(e)
	}

	log.Printf("✅ 订单已取消[%s]，释放%d行预留", orderNo, len(o.Items))
	return o, nil
}
