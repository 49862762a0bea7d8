package library

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// fixture 两本书、两个会员
type fixture struct {
	lib      *Library
	artOfWar *book.Book
	orwell   *book.Book
	carlos   *member.Member
	mariana  *member.Member
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{lib: NewLibrary()}
	var err error

	f.artOfWar, err = book.NewBook("ISBN-L1", "A Arte da Guerra", "Sun Tzu", 500)
	require.NoError(t, err)
	f.orwell, err = book.NewBook("ISBN-L2", "1984", "George Orwell", 1949)
	require.NoError(t, err)
	f.carlos, err = member.NewMember("M-100", "Carlos Dantas")
	require.NoError(t, err)
	f.mariana, err = member.NewMember("M-200", "Mariana Lima")
	require.NoError(t, err)

	require.NoError(t, f.lib.AddBook(f.artOfWar))
	require.NoError(t, f.lib.AddBook(f.orwell))
	require.NoError(t, f.lib.RegisterMember(f.carlos))
	require.NoError(t, f.lib.RegisterMember(f.mariana))
	return f
}

func TestLibrary_AddBook(t *testing.T) {
	t.Run("添加后可以按ID查到", func(t *testing.T) {
		f := newFixture(t)

		found, ok := f.lib.FindBookByID("ISBN-L1")
		require.True(t, ok)
		assert.Same(t, f.artOfWar, found)
		assert.Equal(t, 2, f.lib.Catalog().Len())
	})

	t.Run("重复ID返回参数错误且目录不变", func(t *testing.T) {
		f := newFixture(t)
		dup, err := book.NewBook("ISBN-L1", "Outro", "Outro Autor", 2000)
		require.NoError(t, err)

		err = f.lib.AddBook(dup)

		assert.ErrorIs(t, err, book.ErrBookIDDuplicate)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "ISBN-L1")
		assert.Equal(t, 2, f.lib.Catalog().Len(), "目录大小不应变化")

		found, _ := f.lib.FindBookByID("ISBN-L1")
		assert.Same(t, f.artOfWar, found, "原图书不应被替换")
	})

	t.Run("nil图书返回参数错误", func(t *testing.T) {
		lib := NewLibrary()
		err := lib.AddBook(nil)
		assert.ErrorIs(t, err, book.ErrNilBook)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestLibrary_RegisterMember(t *testing.T) {
	t.Run("重复ID返回参数错误", func(t *testing.T) {
		f := newFixture(t)
		dup, err := member.NewMember("M-100", "Outro Nome")
		require.NoError(t, err)

		err = f.lib.RegisterMember(dup)

		assert.ErrorIs(t, err, member.ErrMemberIDDuplicate)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 2, f.lib.Members().Len())
	})

	t.Run("nil会员返回参数错误", func(t *testing.T) {
		err := NewLibrary().RegisterMember(nil)
		assert.ErrorIs(t, err, member.ErrNilMember)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("查找不存在的会员", func(t *testing.T) {
		f := newFixture(t)
		found, ok := f.lib.FindMemberByID("M-999")
		assert.False(t, ok)
		assert.Nil(t, found)
	})
}

func TestLibrary_BorrowBook(t *testing.T) {
	t.Run("借书成功", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		assert.False(t, f.artOfWar.IsAvailable())
		borrowed := f.carlos.BorrowedBooks()
		assert.Equal(t, 1, borrowed.Len())
		assert.True(t, borrowed.Contains(f.artOfWar))

		available := f.lib.ListAvailableBooks()
		require.Len(t, available, 1)
		assert.Equal(t, "ISBN-L2", available[0].ID())
	})

	t.Run("已借出的书不能再借", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		err := f.lib.BorrowBook("ISBN-L1", "M-200")

		assert.ErrorIs(t, err, book.ErrBookNotAvailable)
		assert.True(t, apperrors.IsConflict(err))
		assert.True(t, f.mariana.BorrowedBooks().IsEmpty(), "第二个会员不应记录该书")
		assert.Equal(t, 1, f.carlos.BorrowedBooks().Len())
	})

	t.Run("ID无法解析", func(t *testing.T) {
		f := newFixture(t)

		err := f.lib.BorrowBook("ISBN-X", "M-100")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.True(t, apperrors.IsNotFound(err))

		err = f.lib.BorrowBook("ISBN-L1", "M-999")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
		assert.True(t, apperrors.IsNotFound(err))
		assert.True(t, f.artOfWar.IsAvailable(), "失败的借书不应修改图书状态")
	})

	t.Run("会员记录失败时撤销图书状态", func(t *testing.T) {
		f := newFixture(t)
		// 绕过Library直接写入会员借阅列表，制造不一致状态
		require.NoError(t, f.carlos.Borrow(f.artOfWar))

		err := f.lib.BorrowBook("ISBN-L1", "M-100")

		assert.ErrorIs(t, err, member.ErrAlreadyBorrowed)
		assert.True(t, f.artOfWar.IsAvailable(), "图书状态应被补偿为可借")
		assert.Equal(t, 1, f.carlos.BorrowedBooks().Len())
	})
}

func TestLibrary_ReturnBook(t *testing.T) {
	t.Run("还书成功", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		require.NoError(t, f.lib.ReturnBook("ISBN-L1", "M-100"))

		assert.True(t, f.artOfWar.IsAvailable())
		assert.True(t, f.carlos.BorrowedBooks().IsEmpty())
		assert.Len(t, f.lib.ListAvailableBooks(), 2)
	})

	t.Run("归还未借出的书返回冲突", func(t *testing.T) {
		f := newFixture(t)

		err := f.lib.ReturnBook("ISBN-L2", "M-100")

		assert.ErrorIs(t, err, book.ErrBookNotOnLoan)
		assert.True(t, apperrors.IsConflict(err))
		assert.True(t, f.orwell.IsAvailable())
	})

	t.Run("其他会员归还返回参数错误且图书仍借出", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		err := f.lib.ReturnBook("ISBN-L1", "M-200")

		assert.ErrorIs(t, err, member.ErrNotBorrowedByMember)
		assert.True(t, apperrors.IsValidation(err))
		assert.False(t, f.artOfWar.IsAvailable(), "图书应保持借出状态")
		assert.True(t, f.carlos.BorrowedBooks().Contains(f.artOfWar))
		assert.True(t, f.mariana.BorrowedBooks().IsEmpty())
	})

	t.Run("ID无法解析", func(t *testing.T) {
		f := newFixture(t)

		assert.True(t, apperrors.IsNotFound(f.lib.ReturnBook("ISBN-X", "M-100")))
		assert.True(t, apperrors.IsNotFound(f.lib.ReturnBook("ISBN-L1", "M-999")))
	})
}

func TestLibrary_RemoveBook(t *testing.T) {
	t.Run("借出的书不能删除", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		err := f.lib.RemoveBook("ISBN-L1")

		assert.ErrorIs(t, err, book.ErrBookOnLoan)
		assert.True(t, apperrors.IsConflict(err))
		_, ok := f.lib.FindBookByID("ISBN-L1")
		assert.True(t, ok, "图书应仍在目录中")
	})

	t.Run("删除可借的书并保持其余顺序", func(t *testing.T) {
		f := newFixture(t)
		third, err := book.NewBook("ISBN-L3", "Dom Casmurro", "Machado de Assis", 1899)
		require.NoError(t, err)
		require.NoError(t, f.lib.AddBook(third))

		require.NoError(t, f.lib.RemoveBook("ISBN-L1"))

		_, ok := f.lib.FindBookByID("ISBN-L1")
		assert.False(t, ok)
		ids := bookIDs(f.lib.Catalog())
		assert.Equal(t, []string{"ISBN-L2", "ISBN-L3"}, ids)

		found, ok := f.lib.FindBookByID("ISBN-L3")
		require.True(t, ok, "删除后索引应重建")
		assert.Same(t, third, found)
	})

	t.Run("不存在的书", func(t *testing.T) {
		f := newFixture(t)
		err := f.lib.RemoveBook("ISBN-X")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestLibrary_RemoveMember(t *testing.T) {
	t.Run("有借阅的会员不能注销", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L2", "M-200"))

		err := f.lib.RemoveMember("M-200")

		assert.ErrorIs(t, err, member.ErrMemberHasLoans)
		assert.True(t, apperrors.IsConflict(err))
		_, ok := f.lib.FindMemberByID("M-200")
		assert.True(t, ok)
	})

	t.Run("归还后可以注销", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L2", "M-200"))
		require.NoError(t, f.lib.ReturnBook("ISBN-L2", "M-200"))

		require.NoError(t, f.lib.RemoveMember("M-200"))

		_, ok := f.lib.FindMemberByID("M-200")
		assert.False(t, ok)
		assert.Equal(t, 1, f.lib.Members().Len())
	})

	t.Run("不存在的会员", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, apperrors.IsNotFound(f.lib.RemoveMember("M-999")))
	})
}

func TestLibrary_Listings(t *testing.T) {
	t.Run("可借列表按目录顺序", func(t *testing.T) {
		f := newFixture(t)
		third, err := book.NewBook("ISBN-L3", "Dom Casmurro", "Machado de Assis", 1899)
		require.NoError(t, err)
		require.NoError(t, f.lib.AddBook(third))
		require.NoError(t, f.lib.BorrowBook("ISBN-L2", "M-100"))

		available := f.lib.ListAvailableBooks()

		require.Len(t, available, 2)
		assert.Equal(t, "ISBN-L1", available[0].ID())
		assert.Equal(t, "ISBN-L3", available[1].ID())
	})

	t.Run("会员借阅列表按借阅顺序", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L2", "M-100"))
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		borrowed, err := f.lib.ListBorrowedBooksForMember("M-100")

		require.NoError(t, err)
		assert.Equal(t, []string{"ISBN-L2", "ISBN-L1"}, bookIDs(borrowed))
	})

	t.Run("会员借阅列表不可修改", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))
		borrowed, err := f.lib.ListBorrowedBooksForMember("M-100")
		require.NoError(t, err)

		assert.ErrorIs(t, borrowed.Append(f.orwell), apperrors.ErrUnsupportedOperation)
		assert.ErrorIs(t, borrowed.Remove(f.artOfWar), apperrors.ErrUnsupportedOperation)
		assert.True(t, apperrors.IsUnsupported(borrowed.Clear()))
		assert.Equal(t, 1, borrowed.Len())
		assert.Equal(t, 1, f.carlos.BorrowedBooks().Len())
	})

	t.Run("未知会员", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.lib.ListBorrowedBooksForMember("M-999")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})

	t.Run("空图书馆", func(t *testing.T) {
		lib := NewLibrary()
		assert.Empty(t, lib.ListAvailableBooks())
		assert.True(t, lib.Catalog().IsEmpty())
		assert.True(t, lib.Members().IsEmpty())
	})

	t.Run("目录视图不可修改", func(t *testing.T) {
		f := newFixture(t)
		catalog := f.lib.Catalog()

		assert.ErrorIs(t, catalog.Clear(), apperrors.ErrUnsupportedOperation)
		assert.Equal(t, 2, f.lib.Catalog().Len())
		assert.ErrorIs(t, f.lib.Members().Append(f.carlos), apperrors.ErrUnsupportedOperation)
	})
}

func TestLibrary_Snapshots(t *testing.T) {
	t.Run("值拷贝不随后续借还变化", func(t *testing.T) {
		f := newFixture(t)
		catalog := f.lib.CatalogSnapshots()

		require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

		require.Len(t, catalog, 2)
		assert.Equal(t, book.Snapshot{ID: "ISBN-L1", Title: "A Arte da Guerra", Author: "Sun Tzu", PublicationYear: 500, Available: true}, catalog[0])
		snap, ok := f.lib.BookSnapshot("ISBN-L1")
		require.True(t, ok)
		assert.False(t, snap.Available)
	})

	t.Run("可借和借阅列表", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.lib.BorrowBook("ISBN-L2", "M-200"))

		available := f.lib.AvailableBookSnapshots()
		require.Len(t, available, 1)
		assert.Equal(t, "ISBN-L1", available[0].ID)

		borrowed, err := f.lib.BorrowedBookSnapshots("M-200")
		require.NoError(t, err)
		require.Len(t, borrowed, 1)
		assert.Equal(t, "ISBN-L2", borrowed[0].ID)
		assert.False(t, borrowed[0].Available)
	})

	t.Run("未知ID", func(t *testing.T) {
		f := newFixture(t)
		_, ok := f.lib.BookSnapshot("ISBN-X")
		assert.False(t, ok)
		_, err := f.lib.BorrowedBookSnapshots("M-999")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})

	t.Run("与借还并发读取", func(t *testing.T) {
		f := newFixture(t)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = f.lib.BorrowBook("ISBN-L1", "M-100")
				_ = f.lib.ReturnBook("ISBN-L1", "M-100")
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for _, s := range f.lib.CatalogSnapshots() {
					_ = s.Available
				}
				_, _ = f.lib.BorrowedBookSnapshots("M-100")
			}
		}()
		wg.Wait()

		snap, ok := f.lib.BookSnapshot("ISBN-L1")
		require.True(t, ok)
		assert.True(t, snap.Available)
	})
}

func TestLibrary_Stats(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lib.BorrowBook("ISBN-L1", "M-100"))

	assert.Equal(t, Stats{Books: 2, Available: 1, OnLoan: 1, Members: 2}, f.lib.Stats())
}

// 任意时刻：借出的书恰好出现在一个会员的借阅列表中
func TestLibrary_LoanInvariant(t *testing.T) {
	f := newFixture(t)

	ops := []struct {
		name string
		run  func() error
	}{
		{"borrow L1 M-100", func() error { return f.lib.BorrowBook("ISBN-L1", "M-100") }},
		{"borrow L1 M-200", func() error { return f.lib.BorrowBook("ISBN-L1", "M-200") }},
		{"return L1 M-200", func() error { return f.lib.ReturnBook("ISBN-L1", "M-200") }},
		{"borrow L2 M-200", func() error { return f.lib.BorrowBook("ISBN-L2", "M-200") }},
		{"return L1 M-100", func() error { return f.lib.ReturnBook("ISBN-L1", "M-100") }},
		{"borrow L1 M-200", func() error { return f.lib.BorrowBook("ISBN-L1", "M-200") }},
		{"remove M-200", func() error { return f.lib.RemoveMember("M-200") }},
	}

	for _, op := range ops {
		_ = op.run()
		assertLoanInvariant(t, f.lib, op.name)
	}
}

func TestLibrary_ConcurrentBorrow(t *testing.T) {
	lib := NewLibrary()
	b, err := book.NewBook("ISBN-L1", "A Arte da Guerra", "Sun Tzu", 500)
	require.NoError(t, err)
	require.NoError(t, lib.AddBook(b))

	const n = 16
	for i := 0; i < n; i++ {
		m, err := member.NewMember(fmt.Sprintf("M-%d", i), "Member")
		require.NoError(t, err)
		require.NoError(t, lib.RegisterMember(m))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := lib.BorrowBook("ISBN-L1", id)
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, book.ErrBookNotAvailable))
		}(fmt.Sprintf("M-%d", i))
	}
	wg.Wait()

	assert.Equal(t, 1, success, "同一本书只能被借出一次")
	assertLoanInvariant(t, lib, "concurrent borrow")
}

func assertLoanInvariant(t *testing.T, lib *Library, step string) {
	t.Helper()

	holders := make(map[string]int)
	for _, m := range lib.Members().All() {
		for _, b := range m.BorrowedBooks().All() {
			holders[b.ID()]++
		}
	}
	for _, b := range lib.Catalog().All() {
		if b.IsAvailable() {
			assert.Zero(t, holders[b.ID()], "%s: 可借的书 %s 不应出现在借阅列表中", step, b.ID())
		} else {
			assert.Equal(t, 1, holders[b.ID()], "%s: 借出的书 %s 应恰好被一个会员持有", step, b.ID())
		}
	}
}

func bookIDs(l book.List) []string {
	ids := make([]string, 0, l.Len())
	for _, b := range l.All() {
		ids = append(ids, b.ID())
	}
	return ids
}
