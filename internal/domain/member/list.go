package member

import (
	"github.com/xiebiao/library/pkg/readonly"
)

// List 会员只读列表
type List = readonly.List[*Member]

// SnapshotOf 拷贝后创建只读视图
func SnapshotOf(members []*Member) List {
	return readonly.Snapshot(members, (*Member).Equal)
}
