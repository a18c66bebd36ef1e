package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/configs"
	"github.com/yeisme/mediakiosk/pkg/internal/handle"
)

// RegisterDiscoveryRoutes 注册发现端点.
// 根路径返回人类可读的端点列表；带版本的 API 根返回机器可读目录.
func RegisterDiscoveryRoutes(e *gin.Engine) {
	e.GET("/", handle.ListEndpoints)
	e.GET(configs.GetConfig().API.BasePath(), handle.DescribeAPI)
}
