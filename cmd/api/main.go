// shopmall 订单与库存协调服务
//
// 启动顺序：配置 → 指标 → MySQL → Redis → RabbitMQ → 路由 → HTTP服务。
// Redis和RabbitMQ是可降级依赖：连不上只影响缓存命中率和事件投递，
// 下单主链路（MySQL）不可用时直接启动失败。
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/shopmall/internal/application/inventory"
	apporder "github.com/xiebiao/shopmall/internal/application/order"
	invdomain "github.com/xiebiao/shopmall/internal/domain/inventory"
	"github.com/xiebiao/shopmall/internal/event"
	catalogclient "github.com/xiebiao/shopmall/internal/infrastructure/catalog"
	"github.com/xiebiao/shopmall/internal/infrastructure/config"
	"github.com/xiebiao/shopmall/internal/infrastructure/persistence/mysql"
	redisinfra "github.com/xiebiao/shopmall/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/shopmall/internal/interface/http/handler"
	"github.com/xiebiao/shopmall/pkg/jwt"
	"github.com/xiebiao/shopmall/pkg/metrics"
	"github.com/xiebiao/shopmall/pkg/mq"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认configs/config.yaml）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	metrics.InitMetrics()

	db, err := mysql.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("❌ 初始化数据库失败: %v", err)
	}

	// Redis连不上时降级为无缓存运行
	var orderCache apporder.Cache
	if redisClient, err := redisinfra.InitClient(cfg.Redis); err != nil {
		log.Printf("⚠️ Redis不可用，订单查询将不走缓存: %v", err)
	} else {
		orderCache = redisinfra.NewOrderCache(redisClient, cfg.Redis.OrderTTL)
	}

	// RabbitMQ连不上时事件只丢弃（下游靠API对账补偿）
	var emitter event.Emitter = event.NopEmitter{}
	var dispatcher *event.Dispatcher
	if cfg.MQ.Enabled {
		if publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic"); err != nil {
			log.Printf("⚠️ RabbitMQ不可用，领域事件将不投递: %v", err)
		} else {
			defer publisher.Close()
			dispatcher = event.NewDispatcher(publisher, cfg.MQ.EventBuffer)
			emitter = dispatcher
		}
	}

	// 仓储与领域服务
	txManager := mysql.NewTxManager(db)
	orderRepo := mysql.NewOrderRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	movementRepo := mysql.NewMovementRepository(db)
	inventorySvc := invdomain.NewService(inventoryRepo, movementRepo)
	catalogClient := catalogclient.NewHTTPClient(cfg.Catalog)

	// 用例
	createOrder := apporder.NewCreateOrderUseCase(orderRepo, inventoryRepo, inventorySvc, catalogClient, txManager, emitter)
	getOrder := apporder.NewGetOrderUseCase(orderRepo, orderCache)
	listOrders := apporder.NewListOrdersUseCase(orderRepo)
	confirmOrder := apporder.NewConfirmOrderUseCase(orderRepo, txManager, emitter, orderCache)
	payOrder := apporder.NewPayOrderUseCase(orderRepo, txManager, emitter, orderCache)
	cancelOrder := apporder.NewCancelOrderUseCase(orderRepo, inventorySvc, txManager, emitter, orderCache)
	shipOrder := apporder.NewShipOrderUseCase(orderRepo, inventorySvc, txManager, emitter, orderCache)
	deliverOrder := apporder.NewDeliverOrderUseCase(orderRepo, txManager, emitter, orderCache)
	orderStats := apporder.NewGetStatsUseCase(orderRepo)

	addStock := appinventory.NewAddStockUseCase(inventorySvc, txManager, emitter)
	checkStock := appinventory.NewCheckStockUseCase(inventoryRepo)
	getInventory := appinventory.NewGetInventoryUseCase(inventoryRepo)
	listAlerts := appinventory.NewListAlertsUseCase(inventoryRepo)
	listOutOfStock := appinventory.NewListOutOfStockUseCase(inventoryRepo)
	listMovements := appinventory.NewListMovementsUseCase(movementRepo)

	// 接口层
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
	orderHandler := handler.NewOrderHandler(
		createOrder, getOrder, listOrders, confirmOrder, payOrder, cancelOrder, shipOrder, deliverOrder, orderStats)
	inventoryHandler := handler.NewInventoryHandler(
		addStock, checkStock, getInventory, listAlerts, listOutOfStock, listMovements)

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	handler.RegisterRoutes(engine, jwtManager, orderHandler, inventoryHandler)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("🚀 服务启动: http://localhost:%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %v", err)
		}
	}()

	// 优雅退出：先停HTTP，再把事件队列发完
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 收到退出信号，开始优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP服务关闭异常: %v", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Shutdown(ctx); err != nil {
			log.Printf("⚠️ 事件派发器关闭异常: %v", err)
		}
	}

	log.Println("👋 服务已退出")
}
