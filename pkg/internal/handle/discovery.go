package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/configs"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
)

// operations API 操作目录，路径为规范化后的资源路径.
var operations = []types.OperationInfo{
	{Method: http.MethodPost, Path: "/media", Description: "Create media upload target"},
	{Method: http.MethodGet, Path: "/media/{id}", Description: "Get media download URL"},
	{Method: http.MethodPost, Path: "/qr", Description: "Generate QR code for media"},
	{Method: http.MethodGet, Path: "/qr/{code}", Description: "Resolve QR code mapping"},
	{Method: http.MethodPost, Path: "/marketplace/register", Description: "Register marketplace entitlement"},
	{Method: http.MethodGet, Path: "/marketplace/validate", Description: "Validate marketplace entitlement"},
}

// setNoCacheHeaders 发现端点禁用缓存，保证客户端总能看到当前目录.
func setNoCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
}

// DescribeAPI 处理 API 目录查询.
//
//	@Summary		API 目录
//	@Description	返回机器可读的操作目录
//	@Tags			发现
//	@Produce		json
//	@Success		200	{object}	types.APIDescription	"操作目录"
//	@Router			/api/v1 [get]
func DescribeAPI(c *gin.Context) {
	setNoCacheHeaders(c)

	c.JSON(http.StatusOK, types.APIDescription{
		Name:       "mediakiosk",
		Version:    configs.AppVersion,
		Operations: operations,
	})
}

// ListEndpoints 处理根路径的端点列表查询.
//
//	@Summary		端点列表
//	@Description	返回人类可读的端点列表
//	@Tags			发现
//	@Produce		json
//	@Success		200	{object}	map[string]any	"端点列表"
//	@Router			/ [get]
func ListEndpoints(c *gin.Context) {
	setNoCacheHeaders(c)

	endpoints := make([]string, 0, len(operations))
	for _, op := range operations {
		endpoints = append(endpoints, op.Method+" "+op.Path)
	}

	c.JSON(http.StatusOK, gin.H{
		"service":   "mediakiosk",
		"version":   configs.AppVersion,
		"endpoints": endpoints,
	})
}
