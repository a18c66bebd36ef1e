// Package service 实现媒体、二维码与 Marketplace 授权的业务逻辑.
package service

import (
	"errors"
)

// 业务错误，handler 层据此映射 HTTP 状态码.
var (
	// ErrMediaNotFound 媒体记录不存在 → 404.
	ErrMediaNotFound = errors.New("Media not found")
	// ErrMediaExpired 媒体记录已过保留期 → 410.
	ErrMediaExpired = errors.New("Media has expired")
	// ErrQRNotFound 二维码映射不存在 → 404.
	ErrQRNotFound = errors.New("QR code not found")
	// ErrQRExpired 二维码映射已过期 → 410，与 NotFound 严格区分.
	ErrQRExpired = errors.New("QR code has expired")
	// ErrInvalidToken 注册令牌无效 → 400.
	ErrInvalidToken = errors.New("Invalid marketplace registration token")
)

// DefaultUserID 匿名用户标识.
const DefaultUserID = "anonymous"
