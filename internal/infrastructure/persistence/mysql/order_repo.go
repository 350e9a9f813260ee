package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/shopmall/internal/domain/order"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// OrderRepository 订单仓储的MySQL实现
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 持久化订单及明细（明细通过关联一起插入）
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "创建订单失败")
	}

	// 回填自增主键
	o.ID = model.ID
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 按主键查询
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// FindByOrderNo 按订单号查询
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.findByOrderNo(ctx, orderNo, false)
}

// FindByOrderNoForUpdate 按订单号查询并加行锁
func (r *OrderRepository) FindByOrderNoForUpdate(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.findByOrderNo(ctx, orderNo, true)
}

func (r *OrderRepository) findByOrderNo(ctx context.Context, orderNo string, forUpdate bool) (*order.Order, error) {
	db := getDB(ctx, r.db)
	if forUpdate {
		// SELECT ... FOR UPDATE，事务提交前挡住并发流转
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model OrderModel
	err := db.Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// FindByUserID 分页查询用户订单
func (r *OrderRepository) FindByUserID(ctx context.Context, userID uint, status *order.Status, page, pageSize int) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db).Model(&OrderModel{}).Where("user_id = ?", userID)
	if status != nil {
		db = db.Where("status = ?", int(*status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "统计订单失败")
	}

	var models []OrderModel
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询订单列表失败")
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, total, nil
}

// Update 更新订单主记录（明细下单后不可变，不更新）
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":       int(o.Status),
			"notes":        o.Notes,
			"shipped_at":   o.ShippedAt,
			"delivered_at": o.DeliveredAt,
			"cancelled_at": o.CancelledAt,
		})
	if result.Error != nil {
		return apperrors.WrapWithCode(result.Error, apperrors.ErrCodeDatabaseError, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

// CountByStatus 统计用户某状态下的订单数
func (r *OrderRepository) CountByStatus(ctx context.Context, userID uint, status order.Status) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("user_id = ? AND status = ?", userID, int(status)).Count(&count).Error
	if err != nil {
		return 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "统计订单失败")
	}
	return count, nil
}

// CountByUser 统计用户订单总数
func (r *OrderRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&OrderModel{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "统计订单失败")
	}
	return count, nil
}

// =========================================
// 实体 ↔ 模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return &OrderModel{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		Status:          int(o.Status),
		ShippingAddress: o.ShippingAddress,
		Currency:        o.Currency,
		Notes:           o.Notes,
		Total:           o.Total,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		Items:           items,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, order.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return &order.Order{
		ID:              m.ID,
		OrderNo:         m.OrderNo,
		UserID:          m.UserID,
		Status:          order.Status(m.Status),
		ShippingAddress: m.ShippingAddress,
		Currency:        m.Currency,
		Notes:           m.Notes,
		Total:           m.Total,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		ShippedAt:       m.ShippedAt,
		DeliveredAt:     m.DeliveredAt,
		CancelledAt:     m.CancelledAt,
		Items:           items,
	}
}
