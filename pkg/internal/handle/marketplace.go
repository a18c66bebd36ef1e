package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/internal/service"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	"github.com/yeisme/mediakiosk/pkg/log"
)

// RegisterEntitlement 处理 Marketplace 授权注册.
//
//	@Summary		注册 Marketplace 授权
//	@Description	用注册令牌兑换客户身份并落库授权记录
//	@Tags			Marketplace
//	@Accept			json
//	@Produce		json
//	@Param			req	body		types.RegisterEntitlementRequest	true	"注册请求"
//	@Success		200	{object}	types.RegisterEntitlementResponse	"注册确认"
//	@Failure		400	{object}	map[string]string					"令牌缺失或无效"
//	@Failure		500	{object}	map[string]string					"服务器内部错误"
//	@Router			/api/v1/marketplace/register [post]
func RegisterEntitlement(c *gin.Context) {
	l := log.Logger()

	var req types.RegisterEntitlementRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration_token is required"})

		return
	}

	svc := service.NewMarketplaceService(c.Request.Context())

	resp, err := svc.RegisterEntitlement(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to register entitlement")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ValidateAccess 处理授权校验.
//
//	@Summary		校验 Marketplace 授权
//	@Description	校验用户授权状态与有效窗口
//	@Tags			Marketplace
//	@Produce		json
//	@Param			user_id	query		string							false	"用户标识，缺省为 anonymous"
//	@Success		200		{object}	types.ValidateAccessResponse	"校验结果"
//	@Failure		500		{object}	map[string]string				"服务器内部错误"
//	@Router			/api/v1/marketplace/validate [get]
func ValidateAccess(c *gin.Context) {
	l := log.Logger()

	userID := c.Query("user_id")

	svc := service.NewMarketplaceService(c.Request.Context())

	resp, err := svc.ValidateAccess(c.Request.Context(), userID)
	if err != nil {
		l.Error().Err(err).Str("user_id", userID).Msg("failed to validate access")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
