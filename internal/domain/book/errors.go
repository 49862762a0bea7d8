package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrInvalidBook 构造参数不合法（空字符串或年份<=0）
	ErrInvalidBook = apperrors.New(apperrors.ErrCodeInvalidBook, "图书数据不合法")

	// ErrNilBook 图书为空
	ErrNilBook = apperrors.New(apperrors.ErrCodeNilBook, "图书不能为空")

	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookIDDuplicate 目录中已存在相同ID的图书
	ErrBookIDDuplicate = apperrors.New(apperrors.ErrCodeBookIDDuplicate, "图书ID已存在")

	// ErrBookOnLoan 图书已借出，不能从目录删除
	ErrBookOnLoan = apperrors.New(apperrors.ErrCodeBookOnLoan, "图书已借出,不能删除")

	// ErrBookNotAvailable 图书不可借
	ErrBookNotAvailable = apperrors.New(apperrors.ErrCodeBookNotAvailable, "图书不可借")

	// ErrBookNotOnLoan 图书未借出，不能归还
	ErrBookNotOnLoan = apperrors.New(apperrors.ErrCodeBookNotOnLoan, "图书未借出")
)
