package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/shopmall/internal/domain/inventory"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
)

// InventoryRepository 库存仓储的MySQL实现
//
// 并发控制采用双保险：
// 1. GetForUpdate的行锁串行化同商品的写操作（主防线）
// 2. Update的乐观锁版本号校验兜底（有调用方绕过行锁直接Update时报冲突）
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetByProductID 查询台账（不加锁）
func (r *InventoryRepository) GetByProductID(ctx context.Context, productID uint) (*inventory.Inventory, error) {
	return r.get(ctx, productID, false)
}

// GetForUpdate 查询台账并加行锁
func (r *InventoryRepository) GetForUpdate(ctx context.Context, productID uint) (*inventory.Inventory, error) {
	return r.get(ctx, productID, true)
}

func (r *InventoryRepository) get(ctx context.Context, productID uint, forUpdate bool) (*inventory.Inventory, error) {
	db := getDB(ctx, r.db)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model InventoryModel
	err := db.Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInventoryNotFound
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询库存失败")
	}
	return toInventoryEntity(&model), nil
}

// BatchGet 批量查询（一次IN查询，无台账的商品不在结果中）
func (r *InventoryRepository) BatchGet(ctx context.Context, productIDs []uint) (map[uint]*inventory.Inventory, error) {
	var models []InventoryModel
	err := getDB(ctx, r.db).Where("product_id IN ?", productIDs).Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "批量查询库存失败")
	}

	result := make(map[uint]*inventory.Inventory, len(models))
	for i := range models {
		result[models[i].ProductID] = toInventoryEntity(&models[i])
	}
	return result, nil
}

// Create 创建台账
func (r *InventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	model := toInventoryModel(inv)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "创建库存台账失败")
	}
	inv.ID = model.ID
	return nil
}

// Update 更新台账，乐观锁版本校验
// WHERE带上旧版本号，没更新到任何行说明被并发修改，返回冲突
func (r *InventoryRepository) Update(ctx context.Context, inv *inventory.Inventory) error {
	result := getDB(ctx, r.db).Model(&InventoryModel{}).
		Where("product_id = ? AND version = ?", inv.ProductID, inv.Version).
		Updates(map[string]interface{}{
			"total_quantity":    inv.TotalQuantity,
			"reserved_quantity": inv.ReservedQuantity,
			"reorder_level":     inv.ReorderLevel,
			"reorder_quantity":  inv.ReorderQuantity,
			"version":           inv.Version + 1,
		})
	if result.Error != nil {
		return apperrors.WrapWithCode(result.Error, apperrors.ErrCodeDatabaseError, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	inv.Version++
	return nil
}

// ListNeedingReorder 可用量降到阈值及以下的商品
func (r *InventoryRepository) ListNeedingReorder(ctx context.Context) ([]*inventory.Inventory, error) {
	var models []InventoryModel
	err := getDB(ctx, r.db).
		Where("total_quantity - reserved_quantity <= reorder_level").
		Order("total_quantity - reserved_quantity ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询补货清单失败")
	}
	return toInventoryEntities(models), nil
}

// ListOutOfStock 可用量耗尽的商品
func (r *InventoryRepository) ListOutOfStock(ctx context.Context) ([]*inventory.Inventory, error) {
	var models []InventoryModel
	err := getDB(ctx, r.db).
		Where("total_quantity - reserved_quantity <= 0").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询缺货清单失败")
	}
	return toInventoryEntities(models), nil
}

// MovementRepository 库存流水仓储的MySQL实现
type MovementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建流水仓储
func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create 写入流水
func (r *MovementRepository) Create(ctx context.Context, m *inventory.Movement) error {
	model := &MovementModel{
		ProductID:      m.ProductID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		Reference:      m.Reference,
		TotalBefore:    m.TotalBefore,
		TotalAfter:     m.TotalAfter,
		ReservedBefore: m.ReservedBefore,
		ReservedAfter:  m.ReservedAfter,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "写入库存流水失败")
	}
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	return nil
}

// FindByProductID 按时间倒序分页查询流水
func (r *MovementRepository) FindByProductID(ctx context.Context, productID uint, page, pageSize int) ([]*inventory.Movement, int64, error) {
	db := getDB(ctx, r.db).Model(&MovementModel{}).Where("product_id = ?", productID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "统计库存流水失败")
	}

	var models []MovementModel
	err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询库存流水失败")
	}

	movements := make([]*inventory.Movement, 0, len(models))
	for i := range models {
		m := models[i]
		movements = append(movements, &inventory.Movement{
			ID:             m.ID,
			ProductID:      m.ProductID,
			Type:           inventory.MovementType(m.Type),
			Quantity:       m.Quantity,
			Reference:      m.Reference,
			TotalBefore:    m.TotalBefore,
			TotalAfter:     m.TotalAfter,
			ReservedBefore: m.ReservedBefore,
			ReservedAfter:  m.ReservedAfter,
			CreatedAt:      m.CreatedAt,
		})
	}
	return movements, total, nil
}

func toInventoryModel(inv *inventory.Inventory) *InventoryModel {
	return &InventoryModel{
		ID:               inv.ID,
		ProductID:        inv.ProductID,
		TotalQuantity:    inv.TotalQuantity,
		ReservedQuantity: inv.ReservedQuantity,
		ReorderLevel:     inv.ReorderLevel,
		ReorderQuantity:  inv.ReorderQuantity,
		Version:          inv.Version,
	}
}

func toInventoryEntity(m *InventoryModel) *inventory.Inventory {
	return &inventory.Inventory{
		ID:               m.ID,
		ProductID:        m.ProductID,
		TotalQuantity:    m.TotalQuantity,
		ReservedQuantity: m.ReservedQuantity,
		ReorderLevel:     m.ReorderLevel,
		ReorderQuantity:  m.ReorderQuantity,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toInventoryEntities(models []InventoryModel) []*inventory.Inventory {
	result := make([]*inventory.Inventory, 0, len(models))
	for i := range models {
		result = append(result, toInventoryEntity(&models[i]))
	}
	return result
}
