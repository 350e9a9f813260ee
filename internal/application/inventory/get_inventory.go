package inventory

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// GetInventoryUseCase 查询单个商品的库存台账（运营端）
type GetInventoryUseCase struct {
	inventoryRepo domain.Repository
}

// NewGetInventoryUseCase 创建台账查询用例
func NewGetInventoryUseCase(inventoryRepo domain.Repository) *GetInventoryUseCase {
	return &GetInventoryUseCase{inventoryRepo: inventoryRepo}
}

// Execute 查询台账，无记录时返回NotFound
func (uc *GetInventoryUseCase) Execute(ctx context.Context, productID uint) (*domain.Inventory, error) {
	return uc.inventoryRepo.GetByProductID(ctx, productID)
}
