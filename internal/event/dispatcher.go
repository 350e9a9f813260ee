package event

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/shopmall/pkg/metrics"
)

// Emitter 事件发射接口（应用层依赖此接口而非具体实现）
type Emitter interface {
	// Emit 投递事件（非阻塞，业务事务提交后调用）
	Emit(e Event)
}

// publisher 抽象pkg/mq的Publisher，便于测试
type publisher interface {
	Publish(routingKey string, message interface{}) error
}

// Dispatcher 异步事件派发器
//
// 工作方式：
// 1. Emit把事件放入有界缓冲channel后立刻返回，不阻塞请求链路
// 2. 后台worker串行取出事件发往RabbitMQ
// 3. 发布失败重试maxAttempts次（间隔递增），仍失败则丢弃并记日志/指标
//
// 队列满时Emit丢弃事件并计数。事件是通知性质的（下游可通过API补偿对账），
// 丢弃优于阻塞下单链路。
type Dispatcher struct {
	pub         publisher
	queue       chan Event
	maxAttempts int
	retryDelay  time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// DispatcherOption 派发器配置项
type DispatcherOption func(*Dispatcher)

// WithMaxAttempts 设置单事件最大发布尝试次数
func WithMaxAttempts(n int) DispatcherOption {
	return func(d *Dispatcher) { d.maxAttempts = n }
}

// WithRetryDelay 设置重试基础间隔
func WithRetryDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.retryDelay = delay }
}

// NewDispatcher 创建并启动派发器
func NewDispatcher(pub publisher, bufferSize int, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		pub:         pub,
		queue:       make(chan Event, bufferSize),
		maxAttempts: 3,
		retryDelay:  200 * time.Millisecond,
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Emit 投递事件，队列满时丢弃
func (d *Dispatcher) Emit(e Event) {
	select {
	case <-d.stopped:
		log.Printf("⚠️ 派发器已关闭，事件丢弃: %s %s", e.EventType, e.EntityID)
		metrics.IncCounterVec(metrics.EventsPublishedTotal,
			map[string]string{"event_type": e.EventType, "result": "dropped"})
		return
	default:
	}

	select {
	case d.queue <- e:
		metrics.SetGauge(metrics.EventQueueLength, float64(len(d.queue)))
	default:
		log.Printf("⚠️ 事件队列已满，事件丢弃: %s %s", e.EventType, e.EntityID)
		metrics.IncCounterVec(metrics.EventsPublishedTotal,
			map[string]string{"event_type": e.EventType, "result": "dropped"})
	}
}

// Shutdown 优雅关闭：不再接收新事件，把队列中剩余事件发完
// 队列channel不关闭，与并发中的Emit不存在向已关闭channel发送的竞争
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() {
		close(d.stopped)
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.queue:
			metrics.SetGauge(metrics.EventQueueLength, float64(len(d.queue)))
			d.publishWithRetry(e)
		case <-d.stopped:
			d.drain()
			return
		}
	}
}

// drain 停止信号之后清空缓冲中剩余的事件
func (d *Dispatcher) drain() {
	for {
		select {
		case e := <-d.queue:
			d.publishWithRetry(e)
		default:
			return
		}
	}
}

// publishWithRetry 有界重试发布，最终失败丢弃
func (d *Dispatcher) publishWithRetry(e Event) {
	key := RoutingKey(e.EventType)

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		lastErr = d.pub.Publish(key, e)
		if lastErr == nil {
			metrics.IncCounterVec(metrics.EventsPublishedTotal,
				map[string]string{"event_type": e.EventType, "result": "success"})
			return
		}
		if attempt < d.maxAttempts {
			time.Sleep(d.retryDelay * time.Duration(attempt))
		}
	}

	log.Printf("❌ 事件发布失败（已尝试%d次），丢弃: %s %s: %v",
		d.maxAttempts, e.EventType, e.EntityID, lastErr)
	metrics.IncCounterVec(metrics.EventsPublishedTotal,
		map[string]string{"event_type": e.EventType, "result": "failure"})
}

// RoutingKey 事件类型映射为MQ路由键
// ORDER_CREATED → order.created，LOW_STOCK → stock.low
func RoutingKey(eventType string) string {
	switch eventType {
	case LowStock:
		return "stock.low"
	case StockReserved:
		return "stock.reserved"
	case StockReleased:
		return "stock.released"
	case StockReplenished:
		return "stock.replenished"
	}
	// ORDER_*前缀统一归到order.<动作>
	if rest, ok := strings.CutPrefix(eventType, "ORDER_"); ok {
		return "order." + strings.ToLower(rest)
	}
	return "event." + strings.ToLower(eventType)
}

// NopEmitter 空实现（测试或禁用MQ时使用）
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}
