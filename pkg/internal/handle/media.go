package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/service"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	"github.com/yeisme/mediakiosk/pkg/log"
)

// CreateMedia 处理创建媒体上传目标.
//
//	@Summary		创建媒体上传目标
//	@Description	生成预签名上传URL并持久化媒体元数据，文件名中的目录部分会被剥离
//	@Tags			媒体
//	@Accept			json
//	@Produce		json
//	@Param			metadata	body		types.CreateMediaRequest	true	"媒体元数据"
//	@Success		200			{object}	types.CreateMediaResponse	"上传目标响应"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Failure		500			{object}	map[string]string			"服务器内部错误"
//	@Router			/api/v1/media [post]
func CreateMedia(c *gin.Context) {
	l := log.Logger()

	var req types.CreateMediaRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.CreateUploadTarget(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to create upload target")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMedia 处理获取媒体下载目标.
//
//	@Summary		获取媒体下载URL
//	@Description	按媒体标识查询元数据并签发预签名下载URL
//	@Tags			媒体
//	@Produce		json
//	@Param			id	path		string					true	"媒体标识"
//	@Success		200	{object}	types.GetMediaResponse	"下载目标响应"
//	@Failure		404	{object}	map[string]string		"媒体不存在"
//	@Failure		410	{object}	map[string]string		"媒体已过期"
//	@Router			/api/v1/media/{id} [get]
func GetMedia(c *gin.Context) {
	l := log.Logger()

	mediaID := c.Param("id")
	if mediaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media id is required"})

		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.GetDownloadTarget(c.Request.Context(), mediaID)
	if err != nil {
		l.Warn().Err(err).Str("media_id", mediaID).Msg("failed to get download target")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
