package member

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 会员领域错误定义
var (
	// ErrInvalidMember 构造参数不合法
	ErrInvalidMember = apperrors.New(apperrors.ErrCodeInvalidMember, "会员数据不合法")

	// ErrNilMember 会员为空
	ErrNilMember = apperrors.New(apperrors.ErrCodeNilMember, "会员不能为空")

	// ErrMemberNotFound 会员不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "会员不存在")

	// ErrMemberIDDuplicate 已存在相同ID的会员
	ErrMemberIDDuplicate = apperrors.New(apperrors.ErrCodeMemberIDDuplicate, "会员ID已存在")

	// ErrMemberHasLoans 会员仍有未归还的图书，不能注销
	ErrMemberHasLoans = apperrors.New(apperrors.ErrCodeMemberHasLoans, "会员仍有未归还的图书")

	// ErrAlreadyBorrowed 该会员已借阅此书
	ErrAlreadyBorrowed = apperrors.New(apperrors.ErrCodeAlreadyBorrowed, "该会员已借阅此书")

	// ErrNotBorrowedByMember 图书不在该会员的借阅列表中
	ErrNotBorrowedByMember = apperrors.New(apperrors.ErrCodeNotBorrowedByMember, "图书不在该会员的借阅列表中")
)
