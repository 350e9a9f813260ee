// Package mysql 基于GORM的MySQL持久化实现
package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/shopmall/internal/infrastructure/config"
)

// InitDB 初始化数据库连接池并执行表结构迁移
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("表结构迁移失败: %w", err)
	}

	log.Printf("✅ 数据库已连接: %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&OrderModel{},
		&OrderItemModel{},
		&InventoryModel{},
		&MovementModel{},
	)
}

// OrderModel 订单表
type OrderModel struct {
	ID              uint   `gorm:"primaryKey"`
	OrderNo         string `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID          uint   `gorm:"index;not null"`
	Status          int    `gorm:"index;not null"`
	ShippingAddress string `gorm:"type:varchar(512)"`
	Currency        string `gorm:"type:varchar(8);not null;default:CNY"`
	Notes           string `gorm:"type:varchar(512)"`
	Total           int64  `gorm:"not null"` // 总金额（分）
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细表
type OrderItemModel struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"index;not null"`
	ProductID   uint   `gorm:"index;not null"`
	ProductName string `gorm:"type:varchar(255);not null"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"` // 下单时单价（分）
	CreatedAt   time.Time
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// InventoryModel 库存台账表
// available不落库，由total_quantity-reserved_quantity派生
type InventoryModel struct {
	ID               uint `gorm:"primaryKey"`
	ProductID        uint `gorm:"uniqueIndex;not null"`
	TotalQuantity    int  `gorm:"not null;default:0"`
	ReservedQuantity int  `gorm:"not null;default:0"`
	ReorderLevel     int  `gorm:"not null;default:0"`
	ReorderQuantity  int  `gorm:"not null;default:0"`
	Version          int  `gorm:"not null;default:0"` // 乐观锁版本号
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName 指定表名
func (InventoryModel) TableName() string {
	return "inventories"
}

// MovementModel 库存变动流水表（只增不改）
type MovementModel struct {
	ID             uint   `gorm:"primaryKey"`
	ProductID      uint   `gorm:"index;not null"`
	Type           string `gorm:"type:varchar(16);not null"`
	Quantity       int    `gorm:"not null"`
	Reference      string `gorm:"type:varchar(64);index"`
	TotalBefore    int    `gorm:"not null"`
	TotalAfter     int    `gorm:"not null"`
	ReservedBefore int    `gorm:"not null"`
	ReservedAfter  int    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName 指定表名
func (MovementModel) TableName() string {
	return "inventory_movements"
}
