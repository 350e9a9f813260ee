// Package catalog 定义商品目录的防腐层接口
// 商品主数据由独立的目录服务维护，本服务只读取用于下单校验
package catalog

import "context"

// Product 商品快照（下单时刻从目录服务取回的视图）
type Product struct {
	ID     uint
	Name   string
	Price  int64 // 当前售价（分）
	Active bool  // 是否在售
}

// Client 商品目录客户端接口
// 实现在基础设施层（HTTP客户端 + 重试 + 熔断）
type Client interface {
	// GetProduct 查询单个商品
	// 商品不存在返回ErrProductNotFound，目录服务不可用返回ErrCatalogDown
	GetProduct(ctx context.Context, productID uint) (*Product, error)
}
