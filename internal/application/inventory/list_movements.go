package inventory

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// ListMovementsUseCase 查询商品的库存变动流水（审计/对账用）
type ListMovementsUseCase struct {
	movementRepo domain.MovementRepository
}

// NewListMovementsUseCase 创建流水查询用例
func NewListMovementsUseCase(movementRepo domain.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{movementRepo: movementRepo}
}

// Execute 分页查询变动流水
func (uc *ListMovementsUseCase) Execute(ctx context.Context, productID uint, page, pageSize int) ([]*domain.Movement, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.movementRepo.FindByProductID(ctx, productID, page, pageSize)
}
