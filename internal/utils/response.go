package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/apperror"
)

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse 统一消息响应
type MessageResponse struct {
	Message string `json:"message"`
}

// Success 返回 200 和数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 返回 201 和数据本身
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 返回 {"message": ...}
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(c, http.StatusInternalServerError, message)
}

// RespondError 根据错误类型输出响应，非 AppError 一律按 500 处理
func RespondError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.NewInternalError("Internal server error", err)
	}

	code := appErr.StatusCode()
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
		// 底层错误不暴露给客户端
		if appErr.Type == apperror.DatabaseError {
			InternalServerError(c, "Internal server error")
			return
		}
	}
	Error(c, code, appErr.Message)
}

// BindingMessage 把 gin 绑定错误转换为可读信息
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "min":
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		case "max":
			return fe.Field() + " must be at most " + fe.Param() + " characters"
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "Invalid JSON body"
}
