package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code决定错误类别（参数错误、资源不存在、状态冲突），调用方按类别处理
// 2. Message是用户友好的提示信息，可以附带出错的ID
// 3. Err是内部错误，仅记录到日志
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// WithDetail生成的错误与原始哨兵错误码相同，errors.Is(err, ErrXxx)仍然成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Kind 返回错误类别
func (e *AppError) Kind() Kind {
	return kindOfCode(e.Code)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithDetail 在哨兵错误的基础上附加细节（如图书ID），错误码不变
func WithDetail(base *AppError, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    base.Code,
		Message: base.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 409xx：参数错误（输入不合法、重复添加、归还不属于该会员的图书）
// - 404xx：资源不存在（图书ID、会员ID无法解析）
// - 400xx：状态冲突（输入合法但与当前状态冲突）
// - 40500：不支持的操作（修改只读视图）
// - 5xxxx：系统错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal = 50000 // 内部错误
	ErrCodeConfig   = 50001 // 配置错误

	// 状态冲突（40000-40099）
	ErrCodeConflict         = 40000 // 状态冲突（通用）
	ErrCodeBookOnLoan       = 40001 // 图书已借出，不能删除
	ErrCodeBookNotAvailable = 40002 // 图书不可借
	ErrCodeBookNotOnLoan    = 40003 // 图书未借出，不能归还
	ErrCodeMemberHasLoans   = 40004 // 会员仍有借阅，不能注销

	// 资源不存在（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在（通用）
	ErrCodeBookNotFound   = 40401 // 图书不存在
	ErrCodeMemberNotFound = 40402 // 会员不存在

	// 不支持的操作
	ErrCodeUnsupportedOperation = 40500 // 只读视图不允许修改

	// 参数错误（40900-40999）
	ErrCodeInvalidParams       = 40900 // 参数错误（通用）
	ErrCodeInvalidBook         = 40901 // 图书数据不合法
	ErrCodeInvalidMember       = 40902 // 会员数据不合法
	ErrCodeNilBook             = 40903 // 图书为空
	ErrCodeBookIDDuplicate     = 40904 // 图书ID已存在
	ErrCodeMemberIDDuplicate   = 40905 // 会员ID已存在
	ErrCodeAlreadyBorrowed     = 40906 // 该会员已借阅此书
	ErrCodeNotBorrowedByMember = 40907 // 图书不在该会员的借阅列表中
	ErrCodeNilMember           = 40908 // 会员为空
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal = New(ErrCodeInternal, "系统内部错误")
	ErrConfig   = New(ErrCodeConfig, "配置不合法")

	ErrConflict = New(ErrCodeConflict, "操作与当前状态冲突")
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// ErrUnsupportedOperation 只读视图被修改时返回
	ErrUnsupportedOperation = New(ErrCodeUnsupportedOperation, "只读视图不支持修改")

	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
)

// =========================================
// 错误类别
// =========================================

// Kind 错误类别
type Kind int

const (
	KindNone        Kind = iota // 无错误
	KindValidation              // 输入不合法
	KindNotFound                // ID无法解析
	KindConflict                // 与当前状态冲突
	KindUnsupported             // 修改只读视图
	KindInternal                // 系统错误或非AppError
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnsupported:
		return "unsupported"
	default:
		return "internal"
	}
}

func kindOfCode(code int) Kind {
	switch {
	case code >= 40900 && code <= 40999:
		return KindValidation
	case code >= 40400 && code <= 40499:
		return KindNotFound
	case code >= 40000 && code <= 40099:
		return KindConflict
	case code == ErrCodeUnsupportedOperation:
		return KindUnsupported
	default:
		return KindInternal
	}
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}

// KindOf 返回err的错误类别，nil返回KindNone
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}

func IsValidation(err error) bool  { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool    { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool    { return KindOf(err) == KindConflict }
func IsUnsupported(err error) bool { return KindOf(err) == KindUnsupported }
