// Package inventory 库存应用层用例
package inventory

import (
	"context"
	"log"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
	"github.com/xiebiao/shopmall/internal/event"
)

// TxManager 事务管理接口
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AddStockInput 入库补货请求
type AddStockInput struct {
	ProductID uint
	Quantity  int
	// 首次入库时生效的台账参数（已有台账时忽略）
	ReorderLevel    int
	ReorderQuantity int
	// Reference 补货单号（可选，流水关联用）
	Reference string
}

// AddStockUseCase 入库补货用例
// 商品首次入库会自动创建台账，成功后发STOCK_REPLENISHED事件
type AddStockUseCase struct {
	inventorySvc *domain.Service
	txManager    TxManager
	emitter      event.Emitter
}

// NewAddStockUseCase 创建入库用例
func NewAddStockUseCase(inventorySvc *domain.Service, txManager TxManager, emitter event.Emitter) *AddStockUseCase {
	return &AddStockUseCase{
		inventorySvc: inventorySvc,
		txManager:    txManager,
		emitter:      emitter,
	}
}

// Execute 执行入库
func (uc *AddStockUseCase) Execute(ctx context.Context, input AddStockInput) (*domain.Inventory, error) {
	var inv *domain.Inventory

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		inv, err = uc.inventorySvc.AddStock(txCtx,
			input.ProductID, input.Quantity, input.ReorderLevel, input.ReorderQuantity, input.Reference)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Emit(event.NewStockEvent(event.StockReplenished, event.StockEventPayload{
		ProductID: inv.ProductID,
		Quantity:  input.Quantity,
		Available: inv.Available(),
		Reference: input.Reference,
	}))

	log.Printf("✅ 入库完成[商品:%d 数量:%d 可用:%d]", input.ProductID, input.Quantity, inv.Available())
	return inv, nil
}
