package metrics

import "testing"

// TestInitMetrics_Idempotent 重复初始化不应panic（promauto重复注册会panic）
func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics() // 第二次调用应被initialized标记挡住

	if OrdersCreatedTotal == nil {
		t.Fatal("InitMetrics后指标不应为nil")
	}
}

// TestHelpers_NilSafe 未初始化的指标传入辅助函数不应panic
func TestHelpers_NilSafe(t *testing.T) {
	IncCounter(nil)
	SetGauge(nil, 1)
	ObserveHistogram(nil, 0.5)
	IncCounterVec(nil, map[string]string{"result": "success"})
	SetGaugeVec(nil, map[string]string{"name": "catalog"}, 1)
}

// TestCounters_Increment 基本计数
func TestCounters_Increment(t *testing.T) {
	InitMetrics()

	IncCounter(OrdersCreatedTotal)
	IncCounterVec(StockReservationsTotal, map[string]string{"result": "success"})
	ObserveHistogram(OrderCreationDuration, 0.12)
	SetGauge(EventQueueLength, 3)
}
