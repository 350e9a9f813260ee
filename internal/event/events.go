// Package event 定义领域事件及其异步派发
//
// 事件语义：至少一次（at-least-once）投递，下游消费者必须幂等。
// 事件在业务事务提交之后发出，保证不会出现"事件发了但数据没落库"。
package event

import (
	"strconv"
	"time"

	"github.com/xiebiao/shopmall/internal/domain/order"
)

// 事件类型常量
// 命名规则：<实体>_<动作过去式>，与MQ路由键对应（order.*/stock.*）
const (
	OrderCreated   = "ORDER_CREATED"
	OrderConfirmed = "ORDER_CONFIRMED"
	OrderCancelled = "ORDER_CANCELLED"
	OrderPaid      = "ORDER_PAYMENT_COMPLETED"
	OrderShipped   = "ORDER_SHIPPED"
	OrderDelivered = "ORDER_DELIVERED"

	StockReserved    = "STOCK_RESERVED"
	StockReleased    = "STOCK_RELEASED"
	StockReplenished = "STOCK_REPLENISHED"
	LowStock         = "LOW_STOCK"
)

// Event 领域事件信封
type Event struct {
	EventType  string      `json:"event_type"`
	EntityID   string      `json:"entity_id"` // 订单号或商品ID
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// OrderEventPayload 订单类事件载荷
type OrderEventPayload struct {
	OrderNo  string           `json:"order_no"`
	UserID   uint             `json:"user_id"`
	Status   string           `json:"status"`
	Total    int64            `json:"total"` // 总金额（分）
	Currency string           `json:"currency"`
	Items    []OrderItemBrief `json:"items,omitempty"`
}

// OrderItemBrief 事件中的明细摘要
type OrderItemBrief struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// StockEventPayload 库存类事件载荷
type StockEventPayload struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"` // 本次变动数量
	Available int    `json:"available"`          // 变动后可用量
	Reference string `json:"reference,omitempty"`
	// 补货建议（仅LOW_STOCK事件携带）
	ReorderLevel    int `json:"reorder_level,omitempty"`
	ReorderQuantity int `json:"reorder_quantity,omitempty"`
}

// NewOrderEvent 从订单聚合构造订单事件
func NewOrderEvent(eventType string, o *order.Order) Event {
	items := make([]OrderItemBrief, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemBrief{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return Event{
		EventType: eventType,
		EntityID:  o.OrderNo,
		Payload: OrderEventPayload{
			OrderNo:  o.OrderNo,
			UserID:   o.UserID,
			Status:   o.Status.String(),
			Total:    o.Total,
			Currency: o.Currency,
			Items:    items,
		},
		OccurredAt: time.Now(),
	}
}

// NewStockEvent 构造库存事件
func NewStockEvent(eventType string, payload StockEventPayload) Event {
	return Event{
		EventType:  eventType,
		EntityID:   entityID(payload.ProductID),
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

func entityID(productID uint) string {
	return "product-" + strconv.FormatUint(uint64(productID), 10)
}
