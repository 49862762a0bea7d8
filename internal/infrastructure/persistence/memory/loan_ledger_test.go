package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestLoanLedger(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("按会员和图书查询", func(t *testing.T) {
		ledger := NewLoanLedger()
		require.NoError(t, ledger.Append(ctx, loan.NewBorrowRecord("ISBN-L1", "M-100", at)))
		require.NoError(t, ledger.Append(ctx, loan.NewBorrowRecord("ISBN-L2", "M-200", at)))
		require.NoError(t, ledger.Append(ctx, loan.NewReturnRecord("ISBN-L1", "M-100", at.Add(time.Hour))))

		byMember, err := ledger.ListByMember(ctx, "M-100")
		require.NoError(t, err)
		require.Len(t, byMember, 2)
		assert.Equal(t, loan.ActionBorrow, byMember[0].Action)
		assert.Equal(t, loan.ActionReturn, byMember[1].Action)

		byBook, err := ledger.ListByBook(ctx, "ISBN-L2")
		require.NoError(t, err)
		require.Len(t, byBook, 1)
		assert.Equal(t, "M-200", byBook[0].MemberID)

		n, err := ledger.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("未知会员返回空列表", func(t *testing.T) {
		records, err := NewLoanLedger().ListByMember(ctx, "M-999")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("返回拷贝", func(t *testing.T) {
		ledger := NewLoanLedger()
		require.NoError(t, ledger.Append(ctx, loan.NewBorrowRecord("ISBN-L1", "M-100", at)))

		records, err := ledger.ListByBook(ctx, "ISBN-L1")
		require.NoError(t, err)
		records[0].MemberID = "M-200"

		again, err := ledger.ListByBook(ctx, "ISBN-L1")
		require.NoError(t, err)
		assert.Equal(t, "M-100", again[0].MemberID)
	})

	t.Run("nil记录", func(t *testing.T) {
		err := NewLoanLedger().Append(ctx, nil)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("已取消的context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := NewLoanLedger().Append(cancelled, loan.NewBorrowRecord("ISBN-L1", "M-100", at))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
