package dto

import (
	"time"

	"github.com/xiebiao/shopmall/internal/application/inventory"
	domain "github.com/xiebiao/shopmall/internal/domain/inventory"
)

// AddStockRequest 入库补货请求
type AddStockRequest struct {
	Quantity        int    `json:"quantity" binding:"required,min=1"`
	ReorderLevel    int    `json:"reorder_level" binding:"min=0"`
	ReorderQuantity int    `json:"reorder_quantity" binding:"min=0"`
	Reference       string `json:"reference" binding:"max=64"`
}

// CheckStockRequest 批量可用性查询请求
type CheckStockRequest struct {
	Items []CheckStockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CheckStockItemRequest 查询行
type CheckStockItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"min=0"`
}

// InventoryResponse 库存台账响应
type InventoryResponse struct {
	ProductID    uint `json:"product_id"`
	Total        int  `json:"total"`
	Reserved     int  `json:"reserved"`
	Available    int  `json:"available"`
	ReorderLevel int  `json:"reorder_level"`
	NeedsReorder bool `json:"needs_reorder"`
}

// ToInventoryResponse 台账转响应
func ToInventoryResponse(inv *domain.Inventory) *InventoryResponse {
	return &InventoryResponse{
		ProductID:    inv.ProductID,
		Total:        inv.TotalQuantity,
		Reserved:     inv.ReservedQuantity,
		Available:    inv.Available(),
		ReorderLevel: inv.ReorderLevel,
		NeedsReorder: inv.NeedsReorder(),
	}
}

// StockStatusResponse 可用性检查响应行
type StockStatusResponse struct {
	ProductID uint `json:"product_id"`
	Available int  `json:"available"`
	InStock   bool `json:"in_stock"`
}

// ToStockStatusResponses 批量转换
func ToStockStatusResponses(statuses []inventory.StockStatus) []StockStatusResponse {
	result := make([]StockStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, StockStatusResponse{
			ProductID: s.ProductID,
			Available: s.Available,
			InStock:   s.InStock,
		})
	}
	return result
}

// ReorderAlertResponse 补货告警响应行
type ReorderAlertResponse struct {
	ProductID       uint `json:"product_id"`
	Available       int  `json:"available"`
	ReorderLevel    int  `json:"reorder_level"`
	ReorderQuantity int  `json:"reorder_quantity"`
	OutOfStock      bool `json:"out_of_stock"`
}

// ToReorderAlertResponses 批量转换
func ToReorderAlertResponses(alerts []inventory.ReorderAlert) []ReorderAlertResponse {
	result := make([]ReorderAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		result = append(result, ReorderAlertResponse{
			ProductID:       a.ProductID,
			Available:       a.Available,
			ReorderLevel:    a.ReorderLevel,
			ReorderQuantity: a.ReorderQuantity,
			OutOfStock:      a.OutOfStock,
		})
	}
	return result
}

// MovementResponse 库存流水响应行
type MovementResponse struct {
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	Reference      string    `json:"reference,omitempty"`
	TotalBefore    int       `json:"total_before"`
	TotalAfter     int       `json:"total_after"`
	ReservedBefore int       `json:"reserved_before"`
	ReservedAfter  int       `json:"reserved_after"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToMovementResponses 批量转换
func ToMovementResponses(movements []*domain.Movement) []MovementResponse {
	result := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		result = append(result, MovementResponse{
			Type:           string(m.Type),
			Quantity:       m.Quantity,
			Reference:      m.Reference,
			TotalBefore:    m.TotalBefore,
			TotalAfter:     m.TotalAfter,
			ReservedBefore: m.ReservedBefore,
			ReservedAfter:  m.ReservedAfter,
			CreatedAt:      m.CreatedAt,
		})
	}
	return result
}
