package circulation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/library"
	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// RegisterMemberUseCase 会员注册用例
type RegisterMemberUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewRegisterMemberUseCase(lib *library.Library, obs *Instrumentation) *RegisterMemberUseCase {
	return &RegisterMemberUseCase{lib: lib, obs: obs}
}

// RegisterMemberRequest 注册请求DTO
type RegisterMemberRequest struct {
	ID   string
	Name string
}

// Execute 执行注册
func (uc *RegisterMemberUseCase) Execute(ctx context.Context, req RegisterMemberRequest) (*MemberResponse, error) {
	var resp MemberResponse
	err := uc.obs.command(ctx, "register_member", []attribute.KeyValue{memberAttr(req.ID)}, func(context.Context) error {
		m, err := member.NewMember(req.ID, req.Name)
		if err != nil {
			return err
		}
		if err := uc.lib.RegisterMember(m); err != nil {
			return err
		}
		resp = MemberResponse{ID: m.ID(), Name: m.Name(), BorrowedBookIDs: []string{}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveMemberUseCase 会员注销用例
type RemoveMemberUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewRemoveMemberUseCase(lib *library.Library, obs *Instrumentation) *RemoveMemberUseCase {
	return &RemoveMemberUseCase{lib: lib, obs: obs}
}

// Execute 注销会员，有未归还图书的会员不能注销
func (uc *RemoveMemberUseCase) Execute(ctx context.Context, memberID string) error {
	return uc.obs.command(ctx, "remove_member", []attribute.KeyValue{memberAttr(memberID)}, func(context.Context) error {
		return uc.lib.RemoveMember(memberID)
	})
}

// FindMemberUseCase 按ID查询会员及其当前借阅
type FindMemberUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewFindMemberUseCase(lib *library.Library, obs *Instrumentation) *FindMemberUseCase {
	return &FindMemberUseCase{lib: lib, obs: obs}
}

// Execute 查询会员，不存在时返回member.ErrMemberNotFound
func (uc *FindMemberUseCase) Execute(ctx context.Context, memberID string) (*MemberResponse, error) {
	var resp MemberResponse
	err := uc.obs.query(ctx, "find_member", []attribute.KeyValue{memberAttr(memberID)}, func(context.Context) error {
		m, ok := uc.lib.FindMemberByID(memberID)
		if !ok {
			return apperrors.WithDetail(member.ErrMemberNotFound, "member %s", memberID)
		}
		borrowed, err := uc.lib.BorrowedBookSnapshots(memberID)
		if err != nil {
			return err
		}
		resp = toMemberResponse(m, borrowed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBorrowedBooksUseCase 会员当前借阅列表
type ListBorrowedBooksUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewListBorrowedBooksUseCase(lib *library.Library, obs *Instrumentation) *ListBorrowedBooksUseCase {
	return &ListBorrowedBooksUseCase{lib: lib, obs: obs}
}

// Execute 按借阅顺序返回会员当前借阅的图书
func (uc *ListBorrowedBooksUseCase) Execute(ctx context.Context, memberID string) ([]BookResponse, error) {
	var resp []BookResponse
	err := uc.obs.query(ctx, "list_borrowed_books", []attribute.KeyValue{memberAttr(memberID)}, func(context.Context) error {
		borrowed, err := uc.lib.BorrowedBookSnapshots(memberID)
		if err != nil {
			return err
		}
		resp = toBookResponses(borrowed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
