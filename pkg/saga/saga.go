// Package saga 实现通用的Saga补偿事务框架
//
// 核心思想：
// 1. 将跨资源的长操作拆分为多个本地短步骤
// 2. 每个步骤有对应的补偿操作
// 3. 某步失败时，按逆序执行已完成步骤的补偿操作
//
// 本项目用于下单流程：持久化订单、逐行预留库存；
// 任一行预留失败时，逆序释放已预留的行并取消订单。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示Saga中的一个步骤
// Action是正向操作（如预留库存），Compensate是补偿操作（如释放库存）。
// 两者都必须支持幂等（网络故障可能导致重试）。
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga事务
//
// 示例：
//
//	sg := saga.NewSaga(30 * time.Second)
//	sg.AddStep("持久化订单", persistOrder, cancelOrder)
//	sg.AddStep("预留库存", reserveStock, releaseStock)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
// 步骤按添加顺序执行，按逆序补偿。
// Action和Compensate都可以为nil（如最后一步通常无需补偿）。
// 约束：补偿操作必须完全独立，只依赖自己Action的结果。
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 某步失败时，逆序执行已完成步骤的Compensate
// 3. 返回失败步骤的错误（补偿错误只记录日志）
//
// 超时时会立即触发补偿流程；补偿使用新Context，避免补偿本身也被超时打断。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			s.compensate(context.Background())
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
// 即使某个Compensate失败也继续执行后续补偿（尽最大努力），
// 补偿失败记录日志，需要人工介入。
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				log.Printf("⚠️ 补偿失败[步骤:%s]: %v", step.Name, err)
			}
		}
	}

	s.executed = nil
}
