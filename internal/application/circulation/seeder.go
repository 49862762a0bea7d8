package circulation

import (
	"context"
	"fmt"

	"github.com/xiebiao/library/pkg/saga"
)

// SeedRequest 初始数据，按图书 → 会员 → 借阅的顺序导入
type SeedRequest struct {
	Books   []AddBookRequest
	Members []RegisterMemberRequest
	Loans   []BorrowBookRequest
}

// SeedResult 导入结果
type SeedResult struct {
	Books   int
	Members int
	Loans   int
}

// Seeder 初始数据导入
// 任意一条失败时撤销已导入的全部数据（逆序：归还 → 注销会员 → 下架图书），
// 返回的错误包含失败的条目
type Seeder struct {
	addBook        *AddBookUseCase
	removeBook     *RemoveBookUseCase
	registerMember *RegisterMemberUseCase
	removeMember   *RemoveMemberUseCase
	borrowBook     *BorrowBookUseCase
	returnBook     *ReturnBookUseCase
}

func NewSeeder(
	addBook *AddBookUseCase,
	removeBook *RemoveBookUseCase,
	registerMember *RegisterMemberUseCase,
	removeMember *RemoveMemberUseCase,
	borrowBook *BorrowBookUseCase,
	returnBook *ReturnBookUseCase,
) *Seeder {
	return &Seeder{
		addBook:        addBook,
		removeBook:     removeBook,
		registerMember: registerMember,
		removeMember:   removeMember,
		borrowBook:     borrowBook,
		returnBook:     returnBook,
	}
}

// Seed 执行导入
func (s *Seeder) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	sg := saga.New()

	for _, b := range req.Books {
		sg.AddStep(fmt.Sprintf("book %s", b.ID),
			func() error {
				_, err := s.addBook.Execute(ctx, b)
				return err
			},
			func() error { return s.removeBook.Execute(ctx, b.ID) },
		)
	}
	for _, m := range req.Members {
		sg.AddStep(fmt.Sprintf("member %s", m.ID),
			func() error {
				_, err := s.registerMember.Execute(ctx, m)
				return err
			},
			func() error { return s.removeMember.Execute(ctx, m.ID) },
		)
	}
	for _, l := range req.Loans {
		sg.AddStep(fmt.Sprintf("loan %s -> %s", l.BookID, l.MemberID),
			func() error {
				_, err := s.borrowBook.Execute(ctx, l)
				return err
			},
			func() error {
				_, err := s.returnBook.Execute(ctx, l)
				return err
			},
		)
	}

	if err := sg.Execute(); err != nil {
		return nil, fmt.Errorf("导入初始数据失败: %w", err)
	}

	return &SeedResult{
		Books:   len(req.Books),
		Members: len(req.Members),
		Loans:   len(req.Loans),
	}, nil
}
