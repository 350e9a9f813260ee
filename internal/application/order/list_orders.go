package order

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
)

// ListOrdersInput 订单列表查询参数
type ListOrdersInput struct {
	UserID   uint
	Status   *domain.Status // nil表示不过滤
	Page     int
	PageSize int
}

// ListOrdersUseCase 分页查询用户订单
type ListOrdersUseCase struct {
	orderRepo domain.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo domain.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute 查询订单列表，返回当页数据和总数
func (uc *ListOrdersUseCase) Execute(ctx context.Context, input ListOrdersInput) ([]*domain.Order, int64, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 || input.PageSize > 100 {
		input.PageSize = 20
	}
	return uc.orderRepo.FindByUserID(ctx, input.UserID, input.Status, input.Page, input.PageSize)
}
