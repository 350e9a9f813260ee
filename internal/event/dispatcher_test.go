package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/shopmall/internal/domain/order"
)

// fakePublisher 记录发布调用，可注入前N次失败
type fakePublisher struct {
	mu        sync.Mutex
	published []string // routingKey序列
	failFirst int      // 前N次调用返回错误
	calls     int
}

func (p *fakePublisher) Publish(routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("连接已断开")
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *fakePublisher) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}

func shutdownDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
}

// TestDispatcher_PublishOrder 事件按提交顺序发布到对应路由键
func TestDispatcher_PublishOrder(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 16)

	o := order.NewOrder(order.GenerateOrderNo(), 1, []order.OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: 5000},
	}, "地址", "CNY", "")

	d.Emit(NewOrderEvent(OrderCreated, o))
	d.Emit(NewStockEvent(StockReserved, StockEventPayload{ProductID: 1, Quantity: 2, Available: 98}))
	d.Emit(NewOrderEvent(OrderCancelled, o))
	shutdownDispatcher(t, d)

	assert.Equal(t, []string{"order.created", "stock.reserved", "order.cancelled"}, pub.snapshot())
}

// TestDispatcher_RetryThenSuccess 瞬时故障在重试后成功
func TestDispatcher_RetryThenSuccess(t *testing.T) {
	pub := &fakePublisher{failFirst: 2}
	d := NewDispatcher(pub, 4, WithMaxAttempts(3), WithRetryDelay(time.Millisecond))

	d.Emit(NewStockEvent(LowStock, StockEventPayload{ProductID: 9, Available: 3, ReorderLevel: 5}))
	shutdownDispatcher(t, d)

	assert.Equal(t, []string{"stock.low"}, pub.snapshot())
	assert.Equal(t, 3, pub.calls)
}

// TestDispatcher_GiveUpAfterMaxAttempts 重试耗尽后丢弃，不阻塞后续事件
func TestDispatcher_GiveUpAfterMaxAttempts(t *testing.T) {
	pub := &fakePublisher{failFirst: 3}
	d := NewDispatcher(pub, 4, WithMaxAttempts(3), WithRetryDelay(time.Millisecond))

	d.Emit(NewStockEvent(StockReleased, StockEventPayload{ProductID: 1, Quantity: 1, Available: 10}))
	d.Emit(NewStockEvent(StockReplenished, StockEventPayload{ProductID: 2, Quantity: 50, Available: 60}))
	shutdownDispatcher(t, d)

	// 第一个事件3次全失败被丢弃，第二个事件正常发出
	assert.Equal(t, []string{"stock.replenished"}, pub.snapshot())
}

// TestDispatcher_EmitAfterShutdown 关闭后Emit不panic、不发布
func TestDispatcher_EmitAfterShutdown(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 4)
	shutdownDispatcher(t, d)

	d.Emit(NewStockEvent(StockReserved, StockEventPayload{ProductID: 1, Quantity: 1, Available: 1}))

	assert.Empty(t, pub.snapshot())
}

// TestDispatcher_ConcurrentEmitDuringShutdown 关闭与并发Emit竞争不panic
func TestDispatcher_ConcurrentEmitDuringShutdown(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, 64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Emit(NewStockEvent(StockReserved, StockEventPayload{ProductID: 1, Quantity: 1, Available: 1}))
			}
		}()
	}

	shutdownDispatcher(t, d)
	wg.Wait()
}

// TestRoutingKey 路由键映射
func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "order.created", RoutingKey(OrderCreated))
	assert.Equal(t, "order.payment_completed", RoutingKey(OrderPaid))
	assert.Equal(t, "order.delivered", RoutingKey(OrderDelivered))
	assert.Equal(t, "stock.low", RoutingKey(LowStock))
	assert.Equal(t, "event.custom", RoutingKey("CUSTOM"))
}
