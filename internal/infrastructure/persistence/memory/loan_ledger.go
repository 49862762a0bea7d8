package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanLedger 借还记录仓储实现（内存）
// 设计说明：
// 1. 实现domain/loan/repository.go定义的接口
// 2. 记录只追加，返回的是拷贝，调用方修改不影响已保存的记录
// 3. 按会员、按图书维护下标索引，查询不需要全表扫描
type loanLedger struct {
	mu       sync.RWMutex
	records  []loan.Record
	byMember map[string][]int
	byBook   map[string][]int
}

// NewLoanLedger 创建借还记录仓储
func NewLoanLedger() loan.Ledger {
	return &loanLedger{
		byMember: make(map[string][]int),
		byBook:   make(map[string][]int),
	}
}

// Append 追加记录
func (l *loanLedger) Append(ctx context.Context, r *loan.Record) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "保存借还记录失败")
	}
	if r == nil {
		return apperrors.WithDetail(apperrors.ErrInvalidParams, "借还记录为空")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := len(l.records)
	l.records = append(l.records, *r)
	l.byMember[r.MemberID] = append(l.byMember[r.MemberID], i)
	l.byBook[r.BookID] = append(l.byBook[r.BookID], i)
	return nil
}

// ListByMember 按会员查询
func (l *loanLedger) ListByMember(ctx context.Context, memberID string) ([]*loan.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "查询借还记录失败")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collect(l.byMember[memberID]), nil
}

// ListByBook 按图书查询
func (l *loanLedger) ListByBook(ctx context.Context, bookID string) ([]*loan.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "查询借还记录失败")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collect(l.byBook[bookID]), nil
}

// Count 记录总数
func (l *loanLedger) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Wrap(err, "统计借还记录失败")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), nil
}

func (l *loanLedger) collect(idx []int) []*loan.Record {
	out := make([]*loan.Record, 0, len(idx))
	for _, i := range idx {
		r := l.records[i]
		out = append(out, &r)
	}
	return out
}
