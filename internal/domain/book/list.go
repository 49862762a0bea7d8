package book

import (
	"github.com/xiebiao/library/pkg/readonly"
)

// List 图书只读列表（会员借阅列表、目录视图）
type List = readonly.List[*Book]

// ViewOf 基于切片创建实时只读视图
func ViewOf(src *[]*Book) List {
	return readonly.View(src, (*Book).Equal)
}

// SnapshotOf 拷贝后创建只读视图
func SnapshotOf(books []*Book) List {
	return readonly.Snapshot(books, (*Book).Equal)
}
