package inventory

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// ReorderAlert 补货告警视图
type ReorderAlert struct {
	ProductID       uint
	Available       int
	ReorderLevel    int
	ReorderQuantity int // 建议补货量
	OutOfStock      bool
}

// ListAlertsUseCase 查询需要补货的商品清单（运营端采购看板用）
type ListAlertsUseCase struct {
	inventoryRepo domain.Repository
}

// NewListAlertsUseCase 创建补货告警用例
func NewListAlertsUseCase(inventoryRepo domain.Repository) *ListAlertsUseCase {
	return &ListAlertsUseCase{inventoryRepo: inventoryRepo}
}

// Execute 列出所有可用量已降到补货阈值及以下的商品
func (uc *ListAlertsUseCase) Execute(ctx context.Context) ([]ReorderAlert, error) {
	invs, err := uc.inventoryRepo.ListNeedingReorder(ctx)
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
			OutOfStock:      inv.IsOutOfStock(),
		})
	}
	return alerts, nil
}
