// Package apperror 应用层错误类型，统一映射到 HTTP 状态码
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType 错误类别
type ErrorType int

const (
	InternalError ErrorType = iota
	DatabaseError
	ValidationError
	BadRequestError
	AuthError      // 未登录或凭证无效
	ForbiddenError // 已登录但无权限
	NotFoundError
	ConflictError
)

// AppError 应用错误
type AppError struct {
	Type    ErrorType
	Message string // 返回给客户端的信息
	Err     error  // 底层错误，仅用于日志
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode 对应的 HTTP 状态码
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return newError(InternalError, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return newError(DatabaseError, message, err)
}

func NewValidationError(message string) *AppError {
	return newError(ValidationError, message, nil)
}

func NewBadRequestError(message string) *AppError {
	return newError(BadRequestError, message, nil)
}

func NewAuthError(message string) *AppError {
	return newError(AuthError, message, nil)
}

func NewForbiddenError(message string) *AppError {
	return newError(ForbiddenError, message, nil)
}

func NewNotFoundError(message string) *AppError {
	return newError(NotFoundError, message, nil)
}

func NewConflictError(message string, err error) *AppError {
	return newError(ConflictError, message, err)
}

// As 从错误链中取出 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
