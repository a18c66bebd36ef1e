package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMediaExpirationDays = 7    // 媒体记录默认保留天数
	DefaultUploadURLTTL        = 3600 // 预签名上传URL有效期，单位秒
	DefaultDownloadURLTTL      = 3600 // 预签名下载URL有效期，单位秒
	DefaultQRURLTTL            = 7    // 二维码映射有效天数
	DefaultQRSize              = 256  // 二维码图片边长，单位像素
)

// MediaConfig 媒体生命周期配置.
type MediaConfig struct {
	ExpirationDays int `mapstructure:"expiration_days"  rule:"min=1"`
	UploadURLTTL   int `mapstructure:"upload_url_ttl"   rule:"min=60,max=604800"`
	DownloadURLTTL int `mapstructure:"download_url_ttl" rule:"min=60,max=604800"`
	QRExpiryDays   int `mapstructure:"qr_expiry_days"   rule:"min=1"`
	QRSize         int `mapstructure:"qr_size"          rule:"min=64,max=1024"`
}

// GetUploadURLTTL 返回上传URL有效期作为time.Duration.
func (c *MediaConfig) GetUploadURLTTL() time.Duration {
	return time.Duration(c.UploadURLTTL) * time.Second
}

// GetDownloadURLTTL 返回下载URL有效期作为time.Duration.
func (c *MediaConfig) GetDownloadURLTTL() time.Duration {
	return time.Duration(c.DownloadURLTTL) * time.Second
}

// GetExpiration 返回媒体记录保留时长.
func (c *MediaConfig) GetExpiration() time.Duration {
	return time.Duration(c.ExpirationDays) * 24 * time.Hour
}

// GetQRExpiry 返回二维码映射有效时长.
func (c *MediaConfig) GetQRExpiry() time.Duration {
	return time.Duration(c.QRExpiryDays) * 24 * time.Hour
}

// setDefaults 设置媒体配置的默认值.
func (c *MediaConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("media.expiration_days", DefaultMediaExpirationDays)
	v.SetDefault("media.upload_url_ttl", DefaultUploadURLTTL)
	v.SetDefault("media.download_url_ttl", DefaultDownloadURLTTL)
	v.SetDefault("media.qr_expiry_days", DefaultQRURLTTL)
	v.SetDefault("media.qr_size", DefaultQRSize)
}
