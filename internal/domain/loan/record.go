package loan

import (
	"time"

	"github.com/google/uuid"
)

// Record 借还记录（领域模型）
//
// 设计说明：
// 1. 只增不改（Append-Only），每次成功的借书或还书产生一条
// 2. 只保存图书ID和会员ID，不引用实体（避免跨聚合引用）
// 3. OccurredAt统一使用UTC
type Record struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	MemberID   string    `json:"member_id"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Action 借还动作
type Action string

const (
	ActionBorrow Action = "BORROW" // 借出
	ActionReturn Action = "RETURN" // 归还
)

func (a Action) String() string {
	return string(a)
}

// NewBorrowRecord 创建借出记录
func NewBorrowRecord(bookID, memberID string, at time.Time) *Record {
	return newRecord(bookID, memberID, ActionBorrow, at)
}

// NewReturnRecord 创建归还记录
func NewReturnRecord(bookID, memberID string, at time.Time) *Record {
	return newRecord(bookID, memberID, ActionReturn, at)
}

func newRecord(bookID, memberID string, action Action, at time.Time) *Record {
	return &Record{
		ID:         uuid.NewString(),
		BookID:     bookID,
		MemberID:   memberID,
		Action:     action,
		OccurredAt: at.UTC(),
	}
}
