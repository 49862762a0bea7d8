// Package saga 按顺序执行一组带补偿操作的步骤
//
// 核心思想：
// 1. 每个步骤由正向操作和补偿操作组成
// 2. 某一步失败时，按逆序执行已完成步骤的补偿操作
// 3. 失败步骤本身不做补偿（它没有生效）
//
// 借书时"标记图书已借出"与"记入会员借阅列表"必须同时生效，
// 任一步失败都不能留下只改了一半的状态。
package saga

import (
	"errors"
	"fmt"
)

// Step 表示Saga中的一个步骤
type Step struct {
	Name       string       // 步骤名称（用于错误信息）
	Action     func() error // 正向操作
	Compensate func() error // 补偿操作，可以为nil
}

// Saga 一组按顺序执行的步骤
// Saga不是并发安全的，调用方负责加锁
type Saga struct {
	steps    []Step
	executed []Step
}

// New 创建一个新的Saga
//
// 示例：
//
//	s := saga.New()
//	s.AddStep("book.mark_borrowed", markBorrowed, markAvailable)
//	s.AddStep("member.borrow", borrow, nil)
//	err := s.Execute()
func New() *Saga {
	return &Saga{
		steps: make([]Step, 0),
	}
}

// AddStep 添加一个步骤，返回Saga自身便于链式调用
func (s *Saga) AddStep(name string, action, compensate func() error) *Saga {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
	return s
}

// Execute 按顺序执行所有步骤
//
// 返回的错误包装了失败步骤的原始错误（errors.Is/errors.As可用）；
// 如果补偿也失败，补偿错误通过errors.Join一并返回
func (s *Saga) Execute() error {
	s.executed = s.executed[:0]

	for i, step := range s.steps {
		if step.Action == nil {
			s.executed = append(s.executed, step)
			continue
		}
		if err := step.Action(); err != nil {
			stepErr := fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			if cerr := s.compensate(); cerr != nil {
				return errors.Join(stepErr, cerr)
			}
			return stepErr
		}
		s.executed = append(s.executed, step)
	}

	s.executed = s.executed[:0]
	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
// 某个补偿失败不影响后续补偿继续执行
func (s *Saga) compensate() error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(); err != nil {
			errs = append(errs, fmt.Errorf("补偿失败[步骤:%s]: %w", step.Name, err))
		}
	}
	s.executed = s.executed[:0]
	return errors.Join(errs...)
}
