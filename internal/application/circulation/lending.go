package circulation

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/library"
	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/saga"
)

// BorrowBookRequest 借书/还书请求DTO
type BorrowBookRequest struct {
	BookID   string
	MemberID string
}

// ReturnBookRequest 还书请求DTO
type ReturnBookRequest = BorrowBookRequest

// =========================================
// 借书
// =========================================

// BorrowBookUseCase 借书用例
// 设计说明：
// 1. 借书本身由Library完成（图书状态和会员借阅列表的一致性由领域层保证）
// 2. 借书成功后追加借还记录；记录写入失败时归还图书，两者保持一致
// 3. 领域操作和补偿各自持有Library的锁，两者之间其他goroutine可以操作同一本书
//    （例如补偿归还前会员已还书），此时补偿失败，返回的错误同时包含记录失败和补偿失败
type BorrowBookUseCase struct {
	lib    *library.Library
	ledger loan.Ledger
	obs    *Instrumentation
	now    func() time.Time
}

func NewBorrowBookUseCase(lib *library.Library, ledger loan.Ledger, obs *Instrumentation) *BorrowBookUseCase {
	return &BorrowBookUseCase{lib: lib, ledger: ledger, obs: obs, now: time.Now}
}

// Execute 执行借书
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (*LoanResponse, error) {
	var record *loan.Record
	attrs := []attribute.KeyValue{bookAttr(req.BookID), memberAttr(req.MemberID)}

	err := uc.obs.command(ctx, "borrow_book", attrs, func(ctx context.Context) error {
		return saga.New().
			AddStep("library.borrow_book",
				func() error { return uc.lib.BorrowBook(req.BookID, req.MemberID) },
				func() error { return uc.lib.ReturnBook(req.BookID, req.MemberID) },
			).
			AddStep("ledger.append",
				func() error {
					record = loan.NewBorrowRecord(req.BookID, req.MemberID, uc.now())
					return uc.ledger.Append(ctx, record)
				},
				nil,
			).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	resp := toLoanResponse(record)
	return &resp, nil
}

// =========================================
// 还书
// =========================================

// ReturnBookUseCase 还书用例，记录写入失败时重新借出
type ReturnBookUseCase struct {
	lib    *library.Library
	ledger loan.Ledger
	obs    *Instrumentation
	now    func() time.Time
}

func NewReturnBookUseCase(lib *library.Library, ledger loan.Ledger, obs *Instrumentation) *ReturnBookUseCase {
	return &ReturnBookUseCase{lib: lib, ledger: ledger, obs: obs, now: time.Now}
}

// Execute 执行还书
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*LoanResponse, error) {
	var record *loan.Record
	attrs := []attribute.KeyValue{bookAttr(req.BookID), memberAttr(req.MemberID)}

	err := uc.obs.command(ctx, "return_book", attrs, func(ctx context.Context) error {
		return saga.New().
			AddStep("library.return_book",
				func() error { return uc.lib.ReturnBook(req.BookID, req.MemberID) },
				func() error { return uc.lib.BorrowBook(req.BookID, req.MemberID) },
			).
			AddStep("ledger.append",
				func() error {
					record = loan.NewReturnRecord(req.BookID, req.MemberID, uc.now())
					return uc.ledger.Append(ctx, record)
				},
				nil,
			).
			Execute()
	})
	if err != nil {
		return nil, err
	}

	resp := toLoanResponse(record)
	return &resp, nil
}

// =========================================
// 借还记录查询
// =========================================

// LoanHistoryUseCase 借还记录查询用例
type LoanHistoryUseCase struct {
	ledger loan.Ledger
	obs    *Instrumentation
}

func NewLoanHistoryUseCase(ledger loan.Ledger, obs *Instrumentation) *LoanHistoryUseCase {
	return &LoanHistoryUseCase{ledger: ledger, obs: obs}
}

// LoanHistoryRequest 查询条件，MemberID和BookID必须且只能指定一个
// 已注销的会员、已下架的图书仍可查询历史记录
type LoanHistoryRequest struct {
	MemberID string
	BookID   string
}

// Execute 按发生顺序返回记录
func (uc *LoanHistoryUseCase) Execute(ctx context.Context, req LoanHistoryRequest) ([]LoanResponse, error) {
	byMember := strings.TrimSpace(req.MemberID) != ""
	byBook := strings.TrimSpace(req.BookID) != ""

	var resp []LoanResponse
	attrs := []attribute.KeyValue{bookAttr(req.BookID), memberAttr(req.MemberID)}

	err := uc.obs.query(ctx, "loan_history", attrs, func(ctx context.Context) error {
		var (
			records []*loan.Record
			err     error
		)
		switch {
		case byMember == byBook:
			return apperrors.WithDetail(apperrors.ErrInvalidParams, "member_id和book_id必须且只能指定一个")
		case byMember:
			records, err = uc.ledger.ListByMember(ctx, req.MemberID)
		default:
			records, err = uc.ledger.ListByBook(ctx, req.BookID)
		}
		if err != nil {
			return err
		}
		resp = toLoanResponses(records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// =========================================
// 统计
// =========================================

// StatsUseCase 统计用例
type StatsUseCase struct {
	lib    *library.Library
	ledger loan.Ledger
	obs    *Instrumentation
}

func NewStatsUseCase(lib *library.Library, ledger loan.Ledger, obs *Instrumentation) *StatsUseCase {
	return &StatsUseCase{lib: lib, ledger: ledger, obs: obs}
}

// Execute 返回目录、名册和借还记录的计数
func (uc *StatsUseCase) Execute(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	err := uc.obs.query(ctx, "stats", nil, func(ctx context.Context) error {
		loans, err := uc.ledger.Count(ctx)
		if err != nil {
			return err
		}
		s := uc.lib.Stats()
		resp = StatsResponse{
			Books:     s.Books,
			Available: s.Available,
			OnLoan:    s.OnLoan,
			Members:   s.Members,
			Loans:     loans,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
