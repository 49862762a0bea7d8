// Package readonly 提供只读列表视图
//
// 领域对象对外暴露内部集合时使用List：调用方可以遍历、查询，
// 但Append/Remove/Clear一律返回ErrUnsupportedOperation，内部集合只能由属主修改。
package readonly

import (
	"iter"
	"slices"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// List 只读列表
// View创建的List跟随源切片变化（实时视图），Snapshot创建的List是创建时刻的拷贝
type List[T any] struct {
	src   *[]T
	equal func(a, b T) bool
}

// View 基于源切片创建实时只读视图
func View[T any](src *[]T, equal func(a, b T) bool) List[T] {
	return List[T]{src: src, equal: equal}
}

// Snapshot 拷贝items后创建只读视图
func Snapshot[T any](items []T, equal func(a, b T) bool) List[T] {
	cp := slices.Clone(items)
	return List[T]{src: &cp, equal: equal}
}

func (l List[T]) items() []T {
	if l.src == nil {
		return nil
	}
	return *l.src
}

// Len 元素个数
func (l List[T]) Len() int { return len(l.items()) }

// IsEmpty 是否为空
func (l List[T]) IsEmpty() bool { return l.Len() == 0 }

// At 返回下标i处的元素，越界时panic（与切片下标一致）
func (l List[T]) At(i int) T { return l.items()[i] }

// Items 返回元素拷贝，修改返回值不影响列表
func (l List[T]) Items() []T { return slices.Clone(l.items()) }

// All 按顺序遍历
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// IndexOf 按equal查找，不存在返回-1
func (l List[T]) IndexOf(x T) int {
	return slices.IndexFunc(l.items(), func(v T) bool { return l.equal(v, x) })
}

// Contains 是否包含x
func (l List[T]) Contains(x T) bool { return l.IndexOf(x) >= 0 }

// Append 只读视图不支持
func (l List[T]) Append(T) error { return apperrors.ErrUnsupportedOperation }

// Remove 只读视图不支持
func (l List[T]) Remove(T) error { return apperrors.ErrUnsupportedOperation }

// Clear 只读视图不支持
func (l List[T]) Clear() error { return apperrors.ErrUnsupportedOperation }
