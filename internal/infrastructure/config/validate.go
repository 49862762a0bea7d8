package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank：去除首尾空白后不能为空
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate 配置校验
// 所有不合法的字段合并成一个apperrors.ErrConfig返回
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &apperrors.AppError{Code: apperrors.ErrCodeConfig, Message: "配置校验失败", Err: err}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.WithDetail(apperrors.ErrConfig, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s 不能为空", field)
	case "required_if":
		return fmt.Sprintf("%s 在启用时不能为空", field)
	case "oneof":
		return fmt.Sprintf("%s 必须是 [%s] 之一，实际为 %q", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s 必须 > %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s 必须 >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s 必须 <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s 校验失败 (%s)", field, fe.Tag())
	}
}
