package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/handle"
)

// RegisterQRRoutes 注册二维码相关路由.
// 生成操作受订阅门禁保护，解析查询不受限.
func RegisterQRRoutes(g *gin.RouterGroup, gate gin.HandlerFunc) {
	qrRoutes := g.Group("/qr")
	{
		qrRoutes.POST("", gate, handle.GenerateQR)
		qrRoutes.GET("/:code", handle.ResolveQR)
	}
}
