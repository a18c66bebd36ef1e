package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/handle"
)

// RegisterMarketplaceRoutes 注册 Marketplace 授权路由.
func RegisterMarketplaceRoutes(g *gin.RouterGroup) {
	marketplaceRoutes := g.Group("/marketplace")
	{
		marketplaceRoutes.POST("/register", handle.RegisterEntitlement)
		marketplaceRoutes.GET("/validate", handle.ValidateAccess)
	}
}
