package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/shopmall/internal/interface/http/middleware"
	"github.com/xiebiao/shopmall/pkg/jwt"
)

// RegisterRoutes 注册全部路由
//
// 路由分组：
// - 公开：健康检查、/metrics、swagger、库存可用性查询
// - 登录用户：下单、查单、确认、取消
// - 运营端：支付回调、发货、签收、入库、补货告警、流水
//   （演示环境运营接口同样走JWT，生产应挂独立的权限校验）
func RegisterRoutes(r *gin.Engine, jwtManager *jwt.Manager, orderHandler *OrderHandler, inventoryHandler *InventoryHandler) {
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// 无需登录
	v1.POST("/inventory/check", inventoryHandler.CheckStock)

	// 需要登录
	auth := v1.Group("")
	auth.Use(middleware.Auth(jwtManager))
	{
		auth.POST("/orders", orderHandler.Create)
		auth.GET("/orders", orderHandler.List)
		auth.GET("/orders/stats", orderHandler.Stats)
		auth.GET("/orders/:order_no", orderHandler.Get)
		auth.POST("/orders/:order_no/confirm", orderHandler.Confirm)
		auth.POST("/orders/:order_no/cancel", orderHandler.Cancel)
		auth.POST("/orders/:order_no/payment", orderHandler.Pay)
		auth.POST("/orders/:order_no/ship", orderHandler.Ship)
		auth.POST("/orders/:order_no/deliver", orderHandler.Deliver)

		auth.POST("/inventory/:product_id/stock", inventoryHandler.AddStock)
		auth.GET("/inventory/alerts", inventoryHandler.ListAlerts)
		auth.GET("/inventory/out-of-stock", inventoryHandler.ListOutOfStock)
		auth.GET("/inventory/:product_id", inventoryHandler.GetInventory)
		auth.GET("/inventory/:product_id/movements", inventoryHandler.ListMovements)
	}
}
