package inventory

import "time"

// MovementType 库存变动类型
type MovementType string

const (
	MovementReserve MovementType = "RESERVE" // 预留（下单冻结）
	MovementRelease MovementType = "RELEASE" // 释放（取消/补偿回退）
	MovementConfirm MovementType = "CONFIRM" // 确认扣减（发货出库）
	MovementRestock MovementType = "RESTOCK" // 入库补货
)

// Movement 库存变动流水（审计用，只增不改）
// 记录变动前后的总量/预留量快照，出问题时可以逐笔对账
type Movement struct {
	ID        uint
	ProductID uint
	Type      MovementType
	Quantity  int    // 本次变动数量（恒为正，方向由Type表达）
	Reference string // 关联单据（订单号或补货单号），可为空
	// 变动前后快照
	TotalBefore    int
	TotalAfter     int
	ReservedBefore int
	ReservedAfter  int
	CreatedAt      time.Time
}

// NewMovement 根据变动前后的台账快照构造流水
func NewMovement(before, after *Inventory, typ MovementType, quantity int, reference string) *Movement {
	return &Movement{
		ProductID:      after.ProductID,
		Type:           typ,
		Quantity:       quantity,
		Reference:      reference,
		TotalBefore:    before.TotalQuantity,
		TotalAfter:     after.TotalQuantity,
		ReservedBefore: before.ReservedQuantity,
		ReservedAfter:  after.ReservedQuantity,
	}
}
