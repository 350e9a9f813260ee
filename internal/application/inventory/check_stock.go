package inventory

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// StockStatus 单个商品的可用性视图
type StockStatus struct {
	ProductID    uint
	Total        int
	Reserved     int
	Available    int
	InStock      bool // 可用量是否满足请求数量
	NeedsReorder bool
}

// CheckStockInput 批量可用性查询
type CheckStockInput struct {
	Lines []CheckStockLine
}

// CheckStockLine 查询行
type CheckStockLine struct {
	ProductID uint
	Quantity  int // 期望数量，0表示只查有没有货
}

// CheckStockUseCase 批量库存可用性检查（只读，不加锁）
// 用于购物车页的"是否有货"展示，结果是瞬时快照，不构成预留承诺
type CheckStockUseCase struct {
	inventoryRepo domain.Repository
}

// NewCheckStockUseCase 创建可用性检查用例
func NewCheckStockUseCase(inventoryRepo domain.Repository) *CheckStockUseCase {
	return &CheckStockUseCase{inventoryRepo: inventoryRepo}
}

// Execute 批量查询
// 无台账的商品返回Available=0、InStock=false，不报错
func (uc *CheckStockUseCase) Execute(ctx context.Context, input CheckStockInput) ([]StockStatus, error) {
	ids := make([]uint, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}

	invs, err := uc.inventoryRepo.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]StockStatus, 0, len(input.Lines))
	for _, line := range input.Lines {
		inv, ok := invs[line.ProductID]
		if !ok {
			result = append(result, StockStatus{ProductID: line.ProductID})
			continue
		}

		wanted := line.Quantity
		if wanted <= 0 {
			wanted = 1
		}
		result = append(result, StockStatus{
			ProductID:    inv.ProductID,
			Total:        inv.TotalQuantity,
			Reserved:     inv.ReservedQuantity,
			Available:    inv.Available(),
			InStock:      inv.Available() >= wanted,
			NeedsReorder: inv.NeedsReorder(),
		})
	}
	return result, nil
}
