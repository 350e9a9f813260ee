// Package dto 定义HTTP接口的请求/响应结构
package dto

import (
	"time"

	apporder "github.com/xiebiao/shopmall/internal/application/order"
	"github.com/xiebiao/shopmall/internal/domain/order"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string                   `json:"shipping_address" binding:"required,max=512"`
	Currency        string                   `json:"currency" binding:"omitempty,len=3"`
	Notes           string                   `json:"notes" binding:"max=512"`
}

// CreateOrderItemRequest 下单明细行
type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// OrderResponse 订单详情响应
type OrderResponse struct {
	OrderNo         string              `json:"order_no"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	Currency        string              `json:"currency"`
	Notes           string              `json:"notes,omitempty"`
	Total           int64               `json:"total"` // 总金额（分）
	ItemCount       int                 `json:"item_count"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
}

// OrderItemResponse 订单明细响应
type OrderItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // 单价（分）
	Subtotal    int64  `json:"subtotal"`
}

// ToOrderResponse 领域实体转响应
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return &OrderResponse{
		OrderNo:         o.OrderNo,
		Status:          o.Status.String(),
		ShippingAddress: o.ShippingAddress,
		Currency:        o.Currency,
		Notes:           o.Notes,
		Total:           o.Total,
		ItemCount:       o.ItemCount(),
		Items:           items,
		CreatedAt:       o.CreatedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
	}
}

// ToOrderResponses 批量转换
func ToOrderResponses(orders []*order.Order) []*OrderResponse {
	result := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToOrderResponse(o))
	}
	return result
}

// OrderStatsResponse 用户订单统计响应
type OrderStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ToOrderStatsResponse 统计视图转响应
func ToOrderStatsResponse(stats *apporder.OrderStats) *OrderStatsResponse {
	return &OrderStatsResponse{
		Total:    stats.Total,
		ByStatus: stats.ByStatus,
	}
}
