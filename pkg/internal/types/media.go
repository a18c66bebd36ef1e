package types

import "github.com/yeisme/mediakiosk/pkg/internal/model"

// ThemeOptions 媒体展示主题，仅做形状约束，不校验取值.
type ThemeOptions struct {
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	AccentColor     string `json:"accent_color,omitempty"`
	HeaderText      string `json:"header_text,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	CustomCSS       string `json:"custom_css,omitempty"`
}

// CreateMediaRequest 创建媒体上传目标请求.
type CreateMediaRequest struct {
	FileName    string `binding:"required" json:"file_name"`
	ContentType string `binding:"required" json:"content_type"`
	UserID      string `json:"user_id,omitempty"`
	// 过期时间由服务端计算，请求中的 expires_at 被忽略
	ExpiresAt    int64         `json:"expires_at,omitempty"`
	ThemeOptions *ThemeOptions `json:"theme_options,omitempty"`
}

// CreateMediaResponse 创建媒体上传目标响应.
type CreateMediaResponse struct {
	UploadURL string             `json:"upload_url"`
	MediaID   string             `json:"media_id"`
	Metadata  *model.MediaRecord `json:"metadata"`
}

// GetMediaResponse 获取媒体下载目标响应.
type GetMediaResponse struct {
	DownloadURL string             `json:"download_url"`
	Metadata    *model.MediaRecord `json:"metadata"`
}
