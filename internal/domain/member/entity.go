package member

import (
	"slices"
	"strings"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Member 会员实体
// 设计说明：
// 1. ID与姓名创建后不可修改，相等性只由ID决定
// 2. borrowed按借阅顺序保存当前借出的图书，同一本书（按ID）最多出现一次
// 3. borrowed只能通过Borrow/ReturnBook修改，对外只暴露只读视图
type Member struct {
	id       string
	name     string
	borrowed []*book.Book
}

// NewMember 创建会员（工厂方法）
// 业务规则：id、name去除首尾空白后不能为空
func NewMember(id, name string) (*Member, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
		return nil, ErrInvalidMember
	}
	return &Member{
		id:       id,
		name:     name,
		borrowed: make([]*book.Book, 0),
	}, nil
}

func (m *Member) ID() string   { return m.id }
func (m *Member) Name() string { return m.name }

// BorrowedBooks 当前借阅列表的只读视图
func (m *Member) BorrowedBooks() book.List {
	return book.ViewOf(&m.borrowed)
}

// HasLoans 是否还有未归还的图书
func (m *Member) HasLoans() bool {
	return len(m.borrowed) > 0
}

// Borrow 记录借阅
// 业务规则：
// - b不能为空
// - 同一本书不能重复记录
func (m *Member) Borrow(b *book.Book) error {
	if b == nil {
		return book.ErrNilBook
	}
	if m.indexOf(b) >= 0 {
		return apperrors.WithDetail(ErrAlreadyBorrowed, "book %s, member %s", b.ID(), m.id)
	}
	m.borrowed = append(m.borrowed, b)
	return nil
}

// ReturnBook 记录归还
// 业务规则：
// - b不能为空
// - b必须在本会员的借阅列表中
func (m *Member) ReturnBook(b *book.Book) error {
	if b == nil {
		return book.ErrNilBook
	}
	i := m.indexOf(b)
	if i < 0 {
		return apperrors.WithDetail(ErrNotBorrowedByMember, "book %s, member %s", b.ID(), m.id)
	}
	m.borrowed = slices.Delete(m.borrowed, i, i+1)
	return nil
}

// Equal 按ID比较
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.id == other.id
}

// Key 返回用于map/集合的键，与Equal一致
func (m *Member) Key() string {
	return m.id
}

func (m *Member) indexOf(b *book.Book) int {
	return slices.IndexFunc(m.borrowed, b.Equal)
}
