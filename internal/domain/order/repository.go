package order

import "context"

// Repository 订单仓储接口
// 接口定义在领域层，实现在基础设施层（依赖倒置）
type Repository interface {
	// Create 持久化订单及其明细（同一事务）
	Create(ctx context.Context, o *Order) error

	// FindByID 根据主键查询（含明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查询（含明细）
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// FindByOrderNoForUpdate 根据订单号查询并加行锁（SELECT FOR UPDATE）
	// 必须在事务内调用，用于状态流转时防止并发修改
	FindByOrderNoForUpdate(ctx context.Context, orderNo string) (*Order, error)

	// FindByUserID 分页查询用户订单，status为nil时不过滤状态
	FindByUserID(ctx context.Context, userID uint, status *Status, page, pageSize int) ([]*Order, int64, error)

	// Update 更新订单（状态、时间戳等，不更新明细）
	Update(ctx context.Context, o *Order) error

	// CountByStatus 统计用户某状态下的订单数
	CountByStatus(ctx context.Context, userID uint, status Status) (int64, error)

	// CountByUser 统计用户订单总数
	CountByUser(ctx context.Context, userID uint) (int64, error)
}
