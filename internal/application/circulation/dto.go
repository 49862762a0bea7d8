package circulation

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
)

// BookResponse 图书DTO
type BookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	Available       bool   `json:"available"`
}

// MemberResponse 会员DTO
type MemberResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	BorrowedBookIDs []string `json:"borrowed_book_ids"` // 按借阅顺序
}

// LoanResponse 借还记录DTO
type LoanResponse struct {
	ID         string `json:"id"`
	BookID     string `json:"book_id"`
	MemberID   string `json:"member_id"`
	Action     string `json:"action"`      // BORROW | RETURN
	OccurredAt string `json:"occurred_at"` // RFC3339, UTC
}

// StatsResponse 统计DTO
type StatsResponse struct {
	Books     int `json:"books"`
	Available int `json:"available"`
	OnLoan    int `json:"on_loan"`
	Members   int `json:"members"`
	Loans     int `json:"loans"` // 借还记录总数
}

// 只接收值拷贝，不在锁外读取Book实体
func toBookResponse(s book.Snapshot) BookResponse {
	return BookResponse{
		ID:              s.ID,
		Title:           s.Title,
		Author:          s.Author,
		PublicationYear: s.PublicationYear,
		Available:       s.Available,
	}
}

func toBookResponses(snaps []book.Snapshot) []BookResponse {
	out := make([]BookResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toBookResponse(s))
	}
	return out
}

// id和name创建后不变，可在锁外读取
func toMemberResponse(m *member.Member, borrowed []book.Snapshot) MemberResponse {
	ids := make([]string, 0, len(borrowed))
	for _, b := range borrowed {
		ids = append(ids, b.ID)
	}
	return MemberResponse{
		ID:              m.ID(),
		Name:            m.Name(),
		BorrowedBookIDs: ids,
	}
}

func toLoanResponse(r *loan.Record) LoanResponse {
	return LoanResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		MemberID:   r.MemberID,
		Action:     r.Action.String(),
		OccurredAt: r.OccurredAt.Format(time.RFC3339),
	}
}

func toLoanResponses(records []*loan.Record) []LoanResponse {
	out := make([]LoanResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toLoanResponse(r))
	}
	return out
}
