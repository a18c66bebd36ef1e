package model

import (
	"time"
)

// 订阅授权状态.
const (
	EntitlementStatusActive = "active"
)

// Entitlement 用户与 Marketplace 客户的授权映射.
type Entitlement struct {
	ID         uint   `gorm:"primaryKey"           json:"-"`
	UserID     string `gorm:"size:255;uniqueIndex" json:"user_id"`
	CustomerID string `gorm:"size:255"             json:"customer_id"`
	// 由 ResolveCustomer 返回的产品代码，用于计量上报
	ProductCode string `gorm:"size:255"               json:"product_code"`
	Status      string `gorm:"size:32;default:active" json:"status"`
	// 最近一次成功校验时间；超过有效窗口的授权被拒绝
	LastValidatedAt time.Time `gorm:"index" json:"last_validated_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}
