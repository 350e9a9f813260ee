//go:build wireinject
// +build wireinject

// Wire依赖注入定义（google/wire）
// 生成命令：wire ./cmd/api
// 当前main.go用手写DI，这里保留wire定义便于依赖图膨胀后切换
package main

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	appinventory "github.com/xiebiao/shopmall/internal/application/inventory"
	apporder "github.com/xiebiao/shopmall/internal/application/order"
	"github.com/xiebiao/shopmall/internal/domain/catalog"
	invdomain "github.com/xiebiao/shopmall/internal/domain/inventory"
	orderdomain "github.com/xiebiao/shopmall/internal/domain/order"
	"github.com/xiebiao/shopmall/internal/event"
	catalogclient "github.com/xiebiao/shopmall/internal/infrastructure/catalog"
	"github.com/xiebiao/shopmall/internal/infrastructure/config"
	"github.com/xiebiao/shopmall/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/shopmall/internal/interface/http/handler"
)

// repositorySet 仓储与领域服务
var repositorySet = wire.NewSet(
	mysql.NewTxManager,
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appinventory.TxManager), new(*mysql.TxManager)),
	mysql.NewOrderRepository,
	wire.Bind(new(orderdomain.Repository), new(*mysql.OrderRepository)),
	mysql.NewInventoryRepository,
	wire.Bind(new(invdomain.Repository), new(*mysql.InventoryRepository)),
	mysql.NewMovementRepository,
	wire.Bind(new(invdomain.MovementRepository), new(*mysql.MovementRepository)),
	invdomain.NewService,
	catalogclient.NewHTTPClient,
	wire.Bind(new(catalog.Client), new(*catalogclient.HTTPClient)),
)

// useCaseSet 应用层用例
var useCaseSet = wire.NewSet(
	apporder.NewCreateOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewConfirmOrderUseCase,
	apporder.NewPayOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewShipOrderUseCase,
	apporder.NewDeliverOrderUseCase,
	apporder.NewGetStatsUseCase,
	appinventory.NewAddStockUseCase,
	appinventory.NewCheckStockUseCase,
	appinventory.NewGetInventoryUseCase,
	appinventory.NewListAlertsUseCase,
	appinventory.NewListOutOfStockUseCase,
	appinventory.NewListMovementsUseCase,
)

// InitializeOrderHandler 构建订单处理器
func InitializeOrderHandler(db *gorm.DB, cfg config.CatalogConfig, emitter event.Emitter, cache apporder.Cache) *handler.OrderHandler {
	wire.Build(repositorySet, useCaseSet, handler.NewOrderHandler)
	return nil
}

// InitializeInventoryHandler 构建库存处理器
func InitializeInventoryHandler(db *gorm.DB, cfg config.CatalogConfig, emitter event.Emitter) *handler.InventoryHandler {
	wire.Build(repositorySet, useCaseSet, handler.NewInventoryHandler)
	return nil
}
