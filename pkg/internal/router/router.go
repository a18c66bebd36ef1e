// Package router 管理路由配置，将规范化后的资源路径绑定到处理器.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/middleware"
)

// RegisterNoRoute 注册未匹配路由的诊断回显.
// 回显原始路径、规范化路径与方法，便于排查网关前缀问题.
func RegisterNoRoute(e *gin.Engine) {
	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":           "Not found",
			"path":            middleware.OriginalPath(c.Request),
			"normalized_path": c.Request.URL.Path,
			"method":          c.Request.Method,
		})
	})
}
