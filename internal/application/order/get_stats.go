package order

import (
	"context"

	domain "github.com/xiebiao/shopmall/internal/domain/order"
)

// OrderStats 用户订单统计视图（个人中心的订单角标用）
type OrderStats struct {
	Total    int64
	ByStatus map[string]int64
}

// GetStatsUseCase 统计用户各状态下的订单数
type GetStatsUseCase struct {
	orderRepo domain.Repository
}

// NewGetStatsUseCase 创建订单统计用例
func NewGetStatsUseCase(orderRepo domain.Repository) *GetStatsUseCase {
	return &GetStatsUseCase{orderRepo: orderRepo}
}

// Execute 逐状态统计
// 六个状态六次计数查询，走(user_id, status)索引，量级上无压力
func (uc *GetStatsUseCase) Execute(ctx context.Context, userID uint) (*OrderStats, error) {
	total, err := uc.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		Total:    total,
		ByStatus: make(map[string]int64, int(domain.StatusCancelled)),
	}
	for s := domain.StatusPending; s <= domain.StatusCancelled; s++ {
		count, err := uc.orderRepo.CountByStatus(ctx, userID, s)
		if err != nil {
			return nil, err
		}
		stats.ByStatus[s.String()] = count
	}
	return stats, nil
}
