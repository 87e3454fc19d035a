// Package saga 提供带补偿的顺序步骤执行器
//
// 用途：客户级联删除的降级路径。级联删除首选单个数据库事务；
// 事务失败（超时/死锁）时退化为逐表顺序删除，此时没有数据库回滚可依赖，
// 由本包实现"全有或全无"：某一步失败，逆序执行已完成步骤的补偿
// （把先前捕获并删除的行重新写回）。
//
// 约束：
// 1. Action和Compensate都必须幂等（补偿本身可能被重试）
// 2. 补偿失败只记录，不中断后续补偿（尽最大努力恢复）
// 3. 保证的是最终一致性，补偿期间数据可能处于中间状态
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step 表示一个步骤
// Action是正向操作（捕获并删除某张表的行），Compensate是补偿操作（写回捕获的行）。
// 两者都可以为nil。
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 一次带补偿的顺序执行
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建Saga
//
// 示例：
//
//	s := saga.NewSaga(30 * time.Second)
//	s.AddStep("删除付款记录", deletePayments, restorePayments)
//	s.AddStep("删除借阅明细", deleteDetails, restoreDetails)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个步骤
// 步骤按添加顺序执行，按逆序补偿。
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 顺序执行所有步骤
// 某一步失败或整体超时，逆序补偿已完成的步骤后返回错误。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时：用新Context补偿，避免补偿也被同一超时打断
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

// compensate 逆序执行已完成步骤的补偿
// 某个补偿失败只记录日志并继续，让其余步骤尽量恢复。
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				// 补偿失败需要人工介入，日志里带步骤名方便定位
				zap.L().Error("saga补偿失败",
					zap.String("step", step.Name),
					zap.Error(err),
				)
			}
		}
	}

	s.executed = nil
}
