package order

import (
	"time"
)

// Order 订单聚合根
//
// 设计说明：
// 1. 订单号（OrderNo）vs 订单ID（ID）：
//   - ID：数据库主键（自增）
//   - OrderNo：业务主键（对外展示，格式"ORD-<uuid>"）
//
// 2. 金额存分（int64）而非元（float64）：避免浮点数精度问题
// 3. 订单 + 明细是一个事务边界（聚合模式），必须一起持久化
// 4. 订单永不物理删除（审计要求），取消只是状态流转
type Order struct {
	ID              uint
	OrderNo         string
	UserID          uint
	Status          Status
	ShippingAddress string // 收货地址（下单后不可变）
	Currency        string // 货币代码（ISO 4217，如CNY/USD）
	Notes           string
	Total           int64 // 总金额（分），恒等于明细之和

	// 生命周期时间戳（到达对应状态前为nil）
	CreatedAt   time.Time // 下单时间
	UpdatedAt   time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	// Items 订单明细（聚合内的实体集合）
	// 记录下单时的名称与价格快照，不依赖商品目录的后续变更
	Items []OrderItem
}

// OrderItem 订单明细（值对象）
// 快照字段：ProductName、UnitPrice记录下单时刻的值，
// 防止商品改名/改价影响历史订单。
type OrderItem struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	ProductName string // 商品名称快照
	Quantity    int    // 购买数量（≥1）
	UnitPrice   int64  // 下单时单价（分）
}

// Subtotal 明细小计
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// NewOrder 创建待支付订单
// 明细与总额在创建时固定；总额由明细计算，不信任外部传入。
func NewOrder(orderNo string, userID uint, items []OrderItem, shippingAddress, currency, notes string) *Order {
	o := &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Currency:        currency,
		Notes:           notes,
		Items:           items,
	}
	o.Total = o.TotalAmount()
	return o
}

// TotalAmount 计算订单总金额（明细quantity × unitPrice之和）
func (o *Order) TotalAmount() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount 订单内商品总件数
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// AddItem 追加明细
// 只有待确认（PENDING）状态的订单允许修改明细。
func (o *Order) AddItem(item OrderItem) error {
	if o.Status != StatusPending {
		return NewInvalidTransition(o.OrderNo, o.Status, "addItem")
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	o.Items = append(o.Items, item)
	o.Total = o.TotalAmount()
	return nil
}

// =========================================
// 生命周期状态机
// =========================================
//
// PENDING → CONFIRMED → PAYMENT_COMPLETED → SHIPPED → DELIVERED
// CANCELLED 只能从 PENDING / CONFIRMED / PAYMENT_COMPLETED 到达
// DELIVERED 和 CANCELLED 是终态

// transitions 合法的状态转换映射
// 使用map集中管理流转规则，便于表驱动测试
var transitions = map[Status][]Status{
	StatusPending: {
		StatusConfirmed,
		StatusCancelled,
	},
	StatusConfirmed: {
		StatusPaymentCompleted,
		StatusCancelled,
	},
	StatusPaymentCompleted: {
		StatusShipped,
		StatusCancelled,
	},
	StatusShipped: {
		StatusDelivered,
	},
	// DELIVERED和CANCELLED是终态，无后续转换
}

// CanTransitionTo 判断是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// Confirm 确认订单（PENDING → CONFIRMED）
func (o *Order) Confirm() error {
	if !o.CanTransitionTo(StatusConfirmed) {
		return NewInvalidTransition(o.OrderNo, o.Status, "confirm")
	}
	o.Status = StatusConfirmed
	return nil
}

// MarkPaymentReceived 标记支付完成（CONFIRMED → PAYMENT_COMPLETED）
// 支付本身在外部完成，这里只接收结果触发
func (o *Order) MarkPaymentReceived() error {
	if o.Status != StatusConfirmed {
		return NewInvalidTransition(o.OrderNo, o.Status, "markPaymentReceived")
	}
	o.Status = StatusPaymentCompleted
	return nil
}

// MarkShipped 标记发货（PAYMENT_COMPLETED → SHIPPED）
// 调用方负责对每条明细执行库存确认扣减
func (o *Order) MarkShipped(now time.Time) error {
	if o.Status != StatusPaymentCompleted {
		return NewInvalidTransition(o.OrderNo, o.Status, "markShipped")
	}
	o.Status = StatusShipped
	o.ShippedAt = &now
	return nil
}

// MarkDelivered 标记签收（SHIPPED → DELIVERED）
func (o *Order) MarkDelivered(now time.Time) error {
	if o.Status != StatusShipped {
		return NewInvalidTransition(o.OrderNo, o.Status, "markDelivered")
	}
	o.Status = StatusDelivered
	o.DeliveredAt = &now
	return nil
}

// Cancel 取消订单
// 调用方负责对每条明细执行库存释放
func (o *Order) Cancel(now time.Time) error {
	if !o.CanBeCancelled() {
		return NewInvalidTransition(o.OrderNo, o.Status, "cancel")
	}
	o.Status = StatusCancelled
	o.CancelledAt = &now
	return nil
}

// CanBeCancelled 判断是否可以取消
// 业务规则：发货前（含已支付）都可以取消；发货后走退货流程，不在本系统内
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending ||
		o.Status == StatusConfirmed ||
		o.Status == StatusPaymentCompleted
}

// IsTerminal 判断是否处于终态
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}
