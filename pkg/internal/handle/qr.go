package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yeisme/mediakiosk/pkg/internal/service"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	"github.com/yeisme/mediakiosk/pkg/log"
)

// mediaIDLength 媒体标识长度（32 位无连字符 UUID）.
const mediaIDLength = 32

// GenerateQR 处理生成二维码.
//
//	@Summary		生成二维码
//	@Description	为媒体生成二维码；提供 frontend_url 时编码规范化后的前端地址，否则编码7天有效的下载URL
//	@Tags			二维码
//	@Accept			json
//	@Produce		json
//	@Param			req	body		types.GenerateQRRequest		true	"二维码生成请求"
//	@Success		200	{object}	types.GenerateQRResponse	"二维码响应"
//	@Failure		400	{object}	map[string]string			"请求参数错误"
//	@Failure		404	{object}	map[string]string			"媒体不存在"
//	@Router			/api/v1/qr [post]
func GenerateQR(c *gin.Context) {
	l := log.Logger()

	var req types.GenerateQRRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")

		// 字段校验失败与 JSON 本身不合法分别报告
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "media_id is required"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		}

		return
	}

	if len(req.MediaID) != mediaIDLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media_id format"})

		return
	}

	svc := service.NewQRService(c.Request.Context())

	resp, err := svc.Generate(c.Request.Context(), &req)
	if err != nil {
		l.Warn().Err(err).Str("media_id", req.MediaID).Msg("failed to generate qr code")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResolveQR 处理解析二维码映射.
//
//	@Summary		解析二维码映射
//	@Description	按 code 查询二维码映射；过期映射返回410，与404严格区分
//	@Tags			二维码
//	@Produce		json
//	@Param			code	path		string					true	"二维码标识"
//	@Success		200		{object}	types.ResolveQRResponse	"映射响应"
//	@Failure		404		{object}	map[string]string		"映射不存在"
//	@Failure		410		{object}	map[string]string		"映射已过期"
//	@Router			/api/v1/qr/{code} [get]
func ResolveQR(c *gin.Context) {
	l := log.Logger()

	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qr code is required"})

		return
	}

	svc := service.NewQRService(c.Request.Context())

	resp, err := svc.Resolve(c.Request.Context(), code)
	if err != nil {
		l.Warn().Err(err).Str("code", code).Msg("failed to resolve qr mapping")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
