// Package library 图书馆领域服务
//
// Library是目录（catalog）和会员名册（roster）的唯一管理者，
// 负责借书、还书、增删图书和会员，并维护单个实体无法保证的跨实体规则：
//   - 目录中图书ID唯一，名册中会员ID唯一
//   - 已借出的图书不能删除，有借阅的会员不能注销
//   - 一本书最多出现在一个会员的借阅列表中，且当且仅当它不可借
package library

import (
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/saga"
)

// Library 图书馆领域服务
// 所有"查找-校验-修改"序列在同一把锁内完成，借书与还书不会交错执行
type Library struct {
	mu      sync.RWMutex
	books   *registry[*book.Book]
	members *registry[*member.Member]
}

// Stats 目录与名册的计数快照
type Stats struct {
	Books     int // 目录中图书总数
	Available int // 可借图书数
	OnLoan    int // 已借出图书数
	Members   int // 注册会员数
}

// NewLibrary 创建空的图书馆
func NewLibrary() *Library {
	return &Library{
		books:   newRegistry[*book.Book](),
		members: newRegistry[*member.Member](),
	}
}

// =========================================
// 查找
// =========================================

// FindBookByID 按ID查找图书，不存在时第二个返回值为false
func (l *Library) FindBookByID(id string) (*book.Book, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.books.get(id)
}

// FindMemberByID 按ID查找会员，不存在时第二个返回值为false
func (l *Library) FindMemberByID(id string) (*member.Member, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.members.get(id)
}

// =========================================
// 目录管理
// =========================================

// AddBook 添加图书到目录
// 业务规则：b不能为空，ID不能与目录中已有图书重复
func (l *Library) AddBook(b *book.Book) error {
	if b == nil {
		return book.ErrNilBook
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.books.has(b.ID()) {
		return apperrors.WithDetail(book.ErrBookIDDuplicate, "book %s", b.ID())
	}
	l.books.add(b)
	return nil
}

// RemoveBook 从目录删除图书
// 业务规则：图书必须存在且当前可借
func (l *Library) RemoveBook(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.books.get(id)
	if !ok {
		return apperrors.WithDetail(book.ErrBookNotFound, "book %s", id)
	}
	if !b.IsAvailable() {
		return apperrors.WithDetail(book.ErrBookOnLoan, "book %s", id)
	}
	l.books.remove(id)
	return nil
}

// =========================================
// 会员管理
// =========================================

// RegisterMember 注册会员
// 业务规则：m不能为空，ID不能重复
func (l *Library) RegisterMember(m *member.Member) error {
	if m == nil {
		return member.ErrNilMember
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.members.has(m.ID()) {
		return apperrors.WithDetail(member.ErrMemberIDDuplicate, "member %s", m.ID())
	}
	l.members.add(m)
	return nil
}

// RemoveMember 注销会员
// 业务规则：会员必须存在且没有未归还的图书
func (l *Library) RemoveMember(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.members.get(id)
	if !ok {
		return apperrors.WithDetail(member.ErrMemberNotFound, "member %s", id)
	}
	if m.HasLoans() {
		return apperrors.WithDetail(member.ErrMemberHasLoans, "member %s", id)
	}
	l.members.remove(id)
	return nil
}

// =========================================
// 借还
// =========================================

// BorrowBook 借书
// 业务规则：
// - 图书和会员都必须存在
// - 图书必须可借
// 先标记图书已借出，再记入会员借阅列表；第二步失败时撤销第一步
func (l *Library) BorrowBook(bookID, memberID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, m, err := l.resolve(bookID, memberID)
	if err != nil {
		return err
	}
	if !b.IsAvailable() {
		return apperrors.WithDetail(book.ErrBookNotAvailable, "book %s", bookID)
	}

	return saga.New().
		AddStep("book.mark_borrowed",
			func() error { b.MarkBorrowed(); return nil },
			func() error { b.MarkAvailable(); return nil },
		).
		AddStep("member.borrow",
			func() error { return m.Borrow(b) },
			nil,
		).
		Execute()
}

// ReturnBook 还书
// 业务规则：
// - 图书和会员都必须存在
// - 图书必须处于借出状态
// - 图书必须在该会员的借阅列表中（否则是参数错误，图书状态保持不变）
// 先移出会员借阅列表，成功后再标记图书可借
func (l *Library) ReturnBook(bookID, memberID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, m, err := l.resolve(bookID, memberID)
	if err != nil {
		return err
	}
	if b.IsAvailable() {
		return apperrors.WithDetail(book.ErrBookNotOnLoan, "book %s", bookID)
	}

	return saga.New().
		AddStep("member.return_book",
			func() error { return m.ReturnBook(b) },
			func() error { return m.Borrow(b) },
		).
		AddStep("book.mark_available",
			func() error { b.MarkAvailable(); return nil },
			nil,
		).
		Execute()
}

// resolve 解析图书和会员，先检查图书
func (l *Library) resolve(bookID, memberID string) (*book.Book, *member.Member, error) {
	b, ok := l.books.get(bookID)
	if !ok {
		return nil, nil, apperrors.WithDetail(book.ErrBookNotFound, "book %s", bookID)
	}
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, nil, apperrors.WithDetail(member.ErrMemberNotFound, "member %s", memberID)
	}
	return b, m, nil
}

// =========================================
// 查询
// =========================================

// ListAvailableBooks 按目录顺序返回所有可借图书
func (l *Library) ListAvailableBooks() []*book.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()

	available := make([]*book.Book, 0, l.books.len())
	for _, b := range l.books.items {
		if b.IsAvailable() {
			available = append(available, b)
		}
	}
	return available
}

// ListBorrowedBooksForMember 返回会员当前借阅列表（只读）
func (l *Library) ListBorrowedBooksForMember(memberID string) (book.List, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.members.get(memberID)
	if !ok {
		return book.List{}, apperrors.WithDetail(member.ErrMemberNotFound, "member %s", memberID)
	}
	return book.SnapshotOf(m.BorrowedBooks().Items()), nil
}

// Catalog 目录的只读快照
func (l *Library) Catalog() book.List {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return book.SnapshotOf(l.books.items)
}

// Members 会员名册的只读快照
func (l *Library) Members() member.List {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return member.SnapshotOf(l.members.items)
}

// =========================================
// 值拷贝查询
// =========================================
// 以下方法在读锁内拷贝图书状态，返回值可在锁外任意读取，
// 供需要在锁外读取可借状态的调用方（用例层DTO映射）使用

// BookSnapshot 按ID返回图书的值拷贝
func (l *Library) BookSnapshot(id string) (book.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.books.get(id)
	if !ok {
		return book.Snapshot{}, false
	}
	return b.Snapshot(), true
}

// AvailableBookSnapshots 按目录顺序返回可借图书的值拷贝
func (l *Library) AvailableBookSnapshots() []book.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]book.Snapshot, 0, l.books.len())
	for _, b := range l.books.items {
		if b.IsAvailable() {
			out = append(out, b.Snapshot())
		}
	}
	return out
}

// CatalogSnapshots 按入库顺序返回全部图书的值拷贝
func (l *Library) CatalogSnapshots() []book.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return snapshots(l.books.items)
}

// BorrowedBookSnapshots 按借阅顺序返回会员当前借阅图书的值拷贝
func (l *Library) BorrowedBookSnapshots(memberID string) ([]book.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.members.get(memberID)
	if !ok {
		return nil, apperrors.WithDetail(member.ErrMemberNotFound, "member %s", memberID)
	}
	return snapshots(m.BorrowedBooks().Items()), nil
}

func snapshots(books []*book.Book) []book.Snapshot {
	out := make([]book.Snapshot, 0, len(books))
	for _, b := range books {
		out = append(out, b.Snapshot())
	}
	return out
}

// Stats 返回计数快照
func (l *Library) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Stats{
		Books:   l.books.len(),
		Members: l.members.len(),
	}
	for _, b := range l.books.items {
		if b.IsAvailable() {
			s.Available++
		}
	}
	s.OnLoan = s.Books - s.Available
	return s
}
