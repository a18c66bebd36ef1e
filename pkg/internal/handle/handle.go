// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/service"
)

// statusFromError 将业务错误映射为 HTTP 状态码.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrMediaNotFound), errors.Is(err, service.ErrQRNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMediaExpired), errors.Is(err, service.ErrQRExpired):
		return http.StatusGone
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 输出统一的 {"error": ...} 错误体.
func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// 内部错误不向调用方泄漏原始信息
		msg = "Internal server error"
	}

	c.JSON(status, gin.H{"error": msg})
}
