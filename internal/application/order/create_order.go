// Package order 订单应用层：一个用例一个文件，Execute为唯一入口
package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/shopmall/internal/domain/catalog"
	"github.com/xiebiao/shopmall/internal/domain/inventory"
	domain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/metrics"
	"github.com/xiebiao/shopmall/pkg/saga"
)

// TxManager 事务管理接口
// fn内通过ctx取到事务句柄，fn返回错误则整体回滚
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateOrderInput 下单请求
type CreateOrderInput struct {
	UserID          uint
	Items           []CreateOrderItem
	ShippingAddress string
	Currency        string
	Notes           string
}

// CreateOrderItem 下单明细行
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// CreateOrderUseCase 下单用例
//
// 下单是跨订单/库存/目录三方的编排，通过Saga保证最终一致：
//
//	步骤1 目录校验：逐商品查目录服务（带重试+熔断），拿到价格快照
//	步骤2 快速预检：批量读库存（不加锁），明显不足时快速失败
//	步骤3 持久化订单：PENDING状态订单+明细落库
//	步骤4 逐行预留库存：行锁+台账+流水，任一行失败触发补偿
//
// 补偿：已预留的行逆序释放，订单标记CANCELLED（保留审计记录，不物理删除）。
// 成功后发出ORDER_CREATED和逐行STOCK_RESERVED事件（事务提交后异步发出）。
type CreateOrderUseCase struct {
	orderRepo     domain.Repository
	inventoryRepo inventory.Repository
	inventorySvc  *inventory.Service
	catalogClient catalog.Client
	txManager     TxManager
	emitter       event.Emitter
	sagaTimeout   time.Duration
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo domain.Repository,
	inventoryRepo inventory.Repository,
	inventorySvc *inventory.Service,
	catalogClient catalog.Client,
	txManager TxManager,
	emitter event.Emitter,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		inventorySvc:  inventorySvc,
		catalogClient: catalogClient,
		txManager:     txManager,
		emitter:       emitter,
		sagaTimeout:   10 * time.Second,
	}
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	start := time.Now()

	o, err := uc.execute(ctx, input)

	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())
	if err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		return nil, err
	}
	metrics.IncCounter(metrics.OrdersCreatedTotal)
	return o, nil
}

func (uc *CreateOrderUseCase) execute(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}
	seen := make(map[uint]bool, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if seen[item.ProductID] {
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidArgument, "商品%d在订单中重复出现", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	if input.Currency == "" {
		input.Currency = "CNY"
	}

	// 步骤1：目录校验，取价格快照
	products, err := uc.validateProducts(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	// 步骤2：不加锁的批量预检，明显不足时不开启事务直接失败
	// 预检通过不代表预留一定成功（存在并发窗口），真正的保证在步骤4的行锁
	if err := uc.precheckStock(ctx, input.Items); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		p := products[line.ProductID]
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		})
	}
	o := domain.NewOrder(domain.GenerateOrderNo(), input.UserID, items, input.ShippingAddress, input.Currency, input.Notes)

	// 步骤3+4：订单落库与逐行预留，失败逆序补偿
	var stockEvents []event.Event
	s := saga.NewSaga(uc.sagaTimeout)

	s.AddStep(
		fmt.Sprintf("持久化订单%s", o.OrderNo),
		func(ctx context.Context) error {
			return uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
				return uc.orderRepo.Create(txCtx, o)
			})
		},
		func(ctx context.Context) error {
			// 订单保留为CANCELLED，不物理删除
			return uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
				persisted, err := uc.orderRepo.FindByOrderNoForUpdate(txCtx, o.OrderNo)
				if err != nil {
					return err
				}
				if err := persisted.Cancel(time.Now()); err != nil {
					return err
				}
				o.Status = domain.StatusCancelled
				return uc.orderRepo.Update(txCtx, persisted)
			})
		},
	)

	for _, item := range o.Items {
		item := item
		s.AddStep(
			fmt.Sprintf("预留商品%d x%d", item.ProductID, item.Quantity),
			func(ctx context.Context) error {
				return uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
					inv, crossed, err := uc.inventorySvc.Reserve(txCtx, item.ProductID, item.Quantity, o.OrderNo)
					if err != nil {
						metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": reserveResult(err)})
						return err
					}
					metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": "success"})
					stockEvents = append(stockEvents, event.NewStockEvent(event.StockReserved, event.StockEventPayload{
						ProductID: inv.ProductID,
						Quantity:  item.Quantity,
						Available: inv.Available(),
						Reference: o.OrderNo,
					}))
					if crossed {
						metrics.IncCounter(metrics.LowStockAlertsTotal)
						stockEvents = append(stockEvents, event.NewStockEvent(event.LowStock, event.StockEventPayload{
							ProductID:       inv.ProductID,
							Available:       inv.Available(),
							Reference:       o.OrderNo,
							ReorderLevel:    inv.ReorderLevel,
							ReorderQuantity: inv.ReorderQuantity,
						}))
					}
					return nil
				})
			},
			func(ctx context.Context) error {
				return uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
					_, err := uc.inventorySvc.Release(txCtx, item.ProductID, item.Quantity, o.OrderNo)
					if err == nil {
						metrics.IncCounter(metrics.StockReleasesTotal)
					}
					return err
				})
			},
		)
	}

	if err := s.Execute(ctx); err != nil {
		log.Printf("❌ 下单失败[用户:%d 订单:%s]: %v", input.UserID, o.OrderNo, err)
		return nil, err
	}

	log.Printf("✅ 下单成功[用户:%d 订单:%s 金额:%d分 %d件]", input.UserID, o.OrderNo, o.Total, o.ItemCount())

	// 事务全部提交后才发事件：先订单事件，再逐行库存事件
	uc.emitter.Emit(event.NewOrderEvent(event.OrderCreated, o))
	for _, e := range stockEvents {
		uc.emitter.Emit(e)
	}

	return o, nil
}

// validateProducts 逐商品校验目录：必须存在且在售
func (uc *CreateOrderUseCase) validateProducts(ctx context.Context, items []CreateOrderItem) (map[uint]*catalog.Product, error) {
	products := make(map[uint]*catalog.Product, len(items))
	for _, item := range items {
		p, err := uc.catalogClient.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Active {
			return nil, apperrors.Newf(apperrors.ErrCodeProductInactive, "商品%s已下架", p.Name)
		}
		products[item.ProductID] = p
	}
	return products, nil
}

// precheckStock 批量可用性预检（不加锁）
func (uc *CreateOrderUseCase) precheckStock(ctx context.Context, items []CreateOrderItem) error {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	invs, err := uc.inventoryRepo.BatchGet(ctx, ids)
	if err != nil {
		return err
	}

	for _, item := range items {
		inv, ok := invs[item.ProductID]
		if !ok {
			return inventory.ErrInventoryNotFound
		}
		if !inv.CanReserve(item.Quantity) {
			return inventory.NewInsufficientStock(item.ProductID, item.Quantity, inv.Available())
		}
	}
	return nil
}

func reserveResult(err error) string {
	if apperrors.IsUnavailable(err) {
		return "insufficient"
	}
	return "failure"
}
