package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在Context中的键（非导出类型避免冲突）
type txKey struct{}

// TxManager GORM事务管理器
// WithTx开启事务并把事务句柄放入Context，仓储通过getDB取出；
// fn返回错误或panic时整体回滚。支持嵌套调用（复用外层事务）。
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx 在事务中执行fn
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已在事务内则直接复用，避免MySQL不支持的真嵌套事务
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// getDB 从Context取事务句柄，不在事务中则用默认连接
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
