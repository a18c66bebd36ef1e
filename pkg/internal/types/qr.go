package types

import "github.com/yeisme/mediakiosk/pkg/internal/model"

// GenerateQRRequest 生成二维码请求.
type GenerateQRRequest struct {
	MediaID     string `binding:"required" json:"media_id"`
	FrontendURL string `json:"frontend_url,omitempty"`
	// 可选的映射过期时间（epoch 秒），缺省为 now + 默认天数
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// GenerateQRResponse 生成二维码响应.
type GenerateQRResponse struct {
	// base64 编码的 PNG 图片
	QRCode  string           `json:"qr_code"`
	MediaID string           `json:"media_id"`
	Mapping *model.QRMapping `json:"mapping"`
}

// ResolveQRResponse 解析二维码映射响应.
type ResolveQRResponse struct {
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
	Status    string `json:"status"`
}
