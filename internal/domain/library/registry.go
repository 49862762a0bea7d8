package library

import (
	"slices"
)

// keyed 按ID标识的实体
type keyed interface {
	Key() string
}

// registry 保持插入顺序的实体集合，附带ID→下标索引（O(1)查找）
// 不是并发安全的，由Library的锁保护
type registry[T keyed] struct {
	items []T
	index map[string]int
}

func newRegistry[T keyed]() *registry[T] {
	return &registry[T]{
		items: make([]T, 0),
		index: make(map[string]int),
	}
}

func (r *registry[T]) get(id string) (T, bool) {
	i, ok := r.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.items[i], true
}

func (r *registry[T]) has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// add 追加到末尾，调用方保证ID不重复
func (r *registry[T]) add(item T) {
	r.index[item.Key()] = len(r.items)
	r.items = append(r.items, item)
}

// remove 删除并保持其余元素顺序
func (r *registry[T]) remove(id string) {
	i, ok := r.index[id]
	if !ok {
		return
	}
	r.items = slices.Delete(r.items, i, i+1)
	delete(r.index, id)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].Key()] = j
	}
}

func (r *registry[T]) len() int {
	return len(r.items)
}
