package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/handle"
)

// RegisterMediaRoutes 注册媒体相关路由.
// 创建操作受订阅门禁保护，下载查询不受限.
func RegisterMediaRoutes(g *gin.RouterGroup, gate gin.HandlerFunc) {
	mediaRoutes := g.Group("/media")
	{
		mediaRoutes.POST("", gate, handle.CreateMedia)
		mediaRoutes.GET("/:id", handle.GetMedia)
	}
}
