package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediakiosk/pkg/configs"
	"github.com/yeisme/mediakiosk/pkg/internal/service"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
)

// EntitlementGateMiddleware 订阅授权门禁.
// 启用 enforce 时，受保护操作要求有效的 Marketplace 订阅；
// 拒绝响应携带注册地址作为补救信息，而非笼统错误.
func EntitlementGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := configs.GetConfig().Marketplace
		if !cfg.Enforce {
			c.Next()

			return
		}

		svc := service.NewMarketplaceService(c.Request.Context())

		status := svc.CheckSubscription(c.Request.Context())
		if !status.IsSubscribed {
			nlog.Logger().Warn().
				Str("path", c.Request.URL.Path).
				Str("reason", status.Message).
				Msg("request denied, subscription required")

			c.AbortWithStatusJSON(http.StatusForbidden, types.EntitlementDenied{
				Error:           "Subscription required",
				RegistrationURL: cfg.RegistrationURL,
			})

			return
		}

		c.Next()
	}
}
