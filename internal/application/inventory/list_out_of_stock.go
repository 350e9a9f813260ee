package inventory

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// ListOutOfStockUseCase 查询可用量已耗尽的商品（运营端缺货看板用）
type ListOutOfStockUseCase struct {
	inventoryRepo domain.Repository
}

// NewListOutOfStockUseCase 创建缺货清单用例
func NewListOutOfStockUseCase(inventoryRepo domain.Repository) *ListOutOfStockUseCase {
	return &ListOutOfStockUseCase{inventoryRepo: inventoryRepo}
}

// Execute 列出可用量为零的商品，复用补货告警视图
func (uc *ListOutOfStockUseCase) Execute(ctx context.Context) ([]ReorderAlert, error) {
	invs, err := uc.inventoryRepo.ListOutOfStock(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]ReorderAlert, 0, len(invs))
	for _, inv := range invs {
		alerts = append(alerts, ReorderAlert{
			ProductID:       inv.ProductID,
			Available:       inv.Available(),
			ReorderLevel:    inv.ReorderLevel,
			ReorderQuantity: inv.ReorderQuantity,
			OutOfStock:      true,
		})
	}
	return alerts, nil
}
