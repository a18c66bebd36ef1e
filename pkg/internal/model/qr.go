package model

import (
	"time"
)

// 二维码映射状态.
const (
	QRStatusActive  = "active"
	QRStatusExpired = "expired"
)

// QRMapping 二维码映射模型.
// expires_at 只约束读取有效性，过期记录不会被删除.
type QRMapping struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// 指向 MediaRecord 的标识，同时作为查询键；不做外键约束
	MediaID string `gorm:"size:32;uniqueIndex" json:"media_id"`
	// 编码进二维码的目标 URL
	URL       string    `gorm:"size:2048"              json:"url"`
	ExpiresAt int64     `gorm:"index"                  json:"expires_at"`
	Status    string    `gorm:"size:32;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
