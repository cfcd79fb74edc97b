package service

import (
	"errors"
	"fmt"
)

// 业务层的错误类别，API 层据此翻译成 HTTP 状态码（见 api/response）
var (
	// ErrInvalidCredentials 登录失败。账号不存在和密码错误统一用它，
	// 不向外暴露"邮箱是否注册过"
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError 携带字段级的校验错误信息
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}
