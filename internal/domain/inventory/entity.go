package inventory

import "time"

// Inventory 库存台账（按商品一行）
//
// 核心不变量：
// 1. 0 ≤ ReservedQuantity ≤ TotalQuantity
// 2. 可用量 = 总量 - 预留量（派生值，不落库，避免两份数据不一致）
//
// 预留模型：下单时只预留（冻结）不扣减，发货时才真正扣减，
// 取消时释放回可用。这样"在途订单"占用的库存对后续下单可见。
type Inventory struct {
	ID               uint
	ProductID        uint
	TotalQuantity    int // 实际在库总量
	ReservedQuantity int // 已被在途订单冻结的数量
	ReorderLevel     int // 补货阈值（可用量≤该值时触发告警）
	ReorderQuantity  int // 建议补货量
	Version          int // 乐观锁版本号
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Available 可用库存（总量减去预留）
func (inv *Inventory) Available() int {
	return inv.TotalQuantity - inv.ReservedQuantity
}

// CanReserve 判断可用库存是否足够预留
func (inv *Inventory) CanReserve(quantity int) bool {
	return quantity > 0 && inv.Available() >= quantity
}

// HasStock 是否有可用库存
func (inv *Inventory) HasStock() bool {
	return inv.Available() > 0
}

// IsOutOfStock 可用库存是否已耗尽
func (inv *Inventory) IsOutOfStock() bool {
	return inv.Available() <= 0
}

// NeedsReorder 是否需要补货（可用量降到阈值及以下）
func (inv *Inventory) NeedsReorder() bool {
	return inv.Available() <= inv.ReorderLevel
}

// Reserve 预留库存（冻结，不改变总量）
// 库存不足时返回错误且不改变任何字段
func (inv *Inventory) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if inv.Available() < quantity {
		return NewInsufficientStock(inv.ProductID, quantity, inv.Available())
	}
	inv.ReservedQuantity += quantity
	return nil
}

// Release 释放预留（订单取消或下单补偿时回退）
// 释放量不能超过当前预留量，否则说明调用方记账出错
func (inv *Inventory) Release(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > inv.ReservedQuantity {
		return NewOverRelease(inv.ProductID, quantity, inv.ReservedQuantity)
	}
	inv.ReservedQuantity -= quantity
	return nil
}

// ConfirmReservation 确认扣减（发货时将预留转为实际出库）
// 总量和预留量同时减少，可用量不变
func (inv *Inventory) ConfirmReservation(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > inv.ReservedQuantity {
		return NewOverConfirm(inv.ProductID, quantity, inv.ReservedQuantity)
	}
	inv.ReservedQuantity -= quantity
	inv.TotalQuantity -= quantity
	return nil
}

// AddStock 入库补货（增加总量，预留量不变）
func (inv *Inventory) AddStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	inv.TotalQuantity += quantity
	return nil
}
