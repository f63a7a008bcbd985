package services

import (
	"errors"
	"fmt"
)

// 领域错误统一在这里定义，服务层返回类型化错误，
// HTTP 层负责翻译为状态码和提示文案。
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMismatch      = errors.New("email check token mismatch")
	ErrCooldownActive     = errors.New("confirm email resend cooldown active")
	ErrAccessDenied       = errors.New("access denied")
	ErrResourceNotFound   = errors.New("resource not found")
)

// DuplicateError 唯一性冲突，Field 指明撞上的是哪个字段
type DuplicateError struct {
	Field string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// ValidationError 字段级校验失败，前端可据此高亮具体输入项
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
