package loan

import "context"

// Ledger 借还记录仓储接口
// 依赖倒置：领域层定义接口，基础设施层实现
type Ledger interface {
	// Append 追加一条记录
	Append(ctx context.Context, r *Record) error

	// ListByMember 按发生顺序返回会员的全部记录
	ListByMember(ctx context.Context, memberID string) ([]*Record, error)

	// ListByBook 按发生顺序返回图书的全部记录
	ListByBook(ctx context.Context, bookID string) ([]*Record, error)

	// Count 记录总数
	Count(ctx context.Context) (int, error)
}
