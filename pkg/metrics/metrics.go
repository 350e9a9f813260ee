// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型选择：
// - 计数用Counter：订单数、预留数、事件数（只增不减，以_total结尾）
// - 瞬时值用Gauge：事件队列长度、熔断器状态
// - 分布用Histogram：下单耗时（自动计算P50/P90/P99）
//
// 暴露方式：/metrics端点由Prometheus定期抓取。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 订单业务指标

	// OrdersCreatedTotal 订单创建成功总数
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal 订单创建失败总数
	OrdersFailedTotal prometheus.Counter

	// OrderTransitionsTotal 订单状态流转总数
	// 标签：action（confirm/cancel/ship/deliver）、result（success/failure）
	OrderTransitionsTotal *prometheus.CounterVec

	// OrderCreationDuration 下单全流程耗时（目录校验+预留+落库）
	OrderCreationDuration prometheus.Histogram

	// 库存台账指标

	// StockReservationsTotal 库存预留操作总数
	// 标签：result（success/insufficient/failure）
	StockReservationsTotal *prometheus.CounterVec

	// StockReleasesTotal 库存释放操作总数
	StockReleasesTotal prometheus.Counter

	// LowStockAlertsTotal 低库存告警总数
	LowStockAlertsTotal prometheus.Counter

	// 事件与依赖指标

	// EventsPublishedTotal 事件发布总数
	// 标签：event_type、result（success/failure/dropped）
	EventsPublishedTotal *prometheus.CounterVec

	// EventQueueLength 事件待发队列长度
	EventQueueLength prometheus.Gauge

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，使用promauto自动注册到默认Registry。
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopmall_http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopmall_http_request_duration_seconds",
		Help:    "HTTP请求耗时",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
	}, []string{"method", "path"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmall_orders_created_total",
		Help: "订单创建成功总数",
	})

	OrdersFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmall_orders_failed_total",
		Help: "订单创建失败总数",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopmall_order_transitions_total",
		Help: "订单状态流转总数",
	}, []string{"action", "result"})

	OrderCreationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopmall_order_creation_duration_seconds",
		Help:    "下单全流程耗时",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 3, 10},
	})

	StockReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopmall_stock_reservations_total",
		Help: "库存预留操作总数",
	}, []string{"result"})

	StockReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmall_stock_releases_total",
		Help: "库存释放操作总数",
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmall_low_stock_alerts_total",
		Help: "低库存告警总数",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopmall_events_published_total",
		Help: "事件发布总数",
	}, []string{"event_type", "result"})

	EventQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopmall_event_queue_length",
		Help: "事件待发队列长度",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shopmall_circuit_breaker_state",
		Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
	}, []string{"name"})
}

// =========================================
// 辅助函数（nil安全：未初始化时不panic，便于单元测试）
// =========================================

// IncCounter 递增计数器
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增带标签的计数器
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// SetGauge 设置仪表值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的仪表值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}
