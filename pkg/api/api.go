// Package api 汇总 HTTP 接口的路由注册.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/router"
	"github.com/yeisme/mediakiosk/pkg/middleware"
)

// RegisterGroup 注册全部路由到传入的 gin 引擎.
// 路由绑定在规范化后的资源路径上，版本与网关前缀由路径规范化层剥离.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	gate := middleware.EntitlementGateMiddleware()

	root := e.Group("")
	router.RegisterMediaRoutes(root, gate)
	router.RegisterQRRoutes(root, gate)
	router.RegisterMarketplaceRoutes(root)
	router.RegisterHealthCheckRoute(root)
	router.RegisterDiscoveryRoutes(e)
	router.RegisterNoRoute(e)

	return e
}
