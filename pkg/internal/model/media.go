package model

import (
	"time"
)

// 媒体记录状态.
const (
	MediaStatusActive  = "active"
	MediaStatusExpired = "expired"
)

// MediaRecord 媒体元数据模型.
type MediaRecord struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// 服务端生成的 32 位无连字符标识，唯一键
	MediaID  string `gorm:"size:32;uniqueIndex"  json:"media_id"`
	FileName string `gorm:"size:512"             json:"file_name"`
	// MIME 类型，签发下载 URL 时透传给对象存储
	ContentType string `gorm:"size:255"             json:"content_type"`
	UserID      string `gorm:"size:255;index"       json:"user_id"`
	// 对象存储路径，创建时确定，之后不再变更
	StoragePath string `gorm:"size:1024"            json:"storage_path"`
	// 过期时间为绝对 epoch 秒，读取时校验
	ExpiresAt int64  `gorm:"index"                json:"expires_at"`
	Status    string `gorm:"size:32;default:active" json:"status"`
	// ThemeOptions 以 JSON 字符串形式存储的展示主题，不做结构校验
	ThemeOptions string    `gorm:"type:text" json:"theme_options,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
