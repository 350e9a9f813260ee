package inventory

import "context"

// Repository 库存仓储接口
type Repository interface {
	// GetByProductID 查询商品库存台账
	GetByProductID(ctx context.Context, productID uint) (*Inventory, error)

	// GetForUpdate 查询并加行锁（SELECT FOR UPDATE）
	// 必须在事务内调用，预留/释放/扣减前必须先锁行
	GetForUpdate(ctx context.Context, productID uint) (*Inventory, error)

	// BatchGet 批量查询（下单前的快速可用性检查，不加锁）
	BatchGet(ctx context.Context, productIDs []uint) (map[uint]*Inventory, error)

	// Create 创建库存台账（商品首次入库）
	Create(ctx context.Context, inv *Inventory) error

	// Update 更新库存台账，带乐观锁版本检查
	// 版本不匹配时返回并发冲突错误
	Update(ctx context.Context, inv *Inventory) error

	// ListNeedingReorder 查询需要补货的商品（可用量≤补货阈值）
	ListNeedingReorder(ctx context.Context) ([]*Inventory, error)

	// ListOutOfStock 查询可用量已耗尽的商品
	ListOutOfStock(ctx context.Context) ([]*Inventory, error)
}

// MovementRepository 库存流水仓储接口
type MovementRepository interface {
	// Create 记录一条库存变动流水（与台账更新同一事务）
	Create(ctx context.Context, m *Movement) error

	// FindByProductID 分页查询商品的变动历史（按时间倒序）
	FindByProductID(ctx context.Context, productID uint, page, pageSize int) ([]*Movement, int64, error)
}
