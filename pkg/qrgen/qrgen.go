// Package qrgen 提供二维码生成功能，输出 base64 编码的 PNG 图片.
package qrgen

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Generator 将字符串编码为二维码图片.
type Generator interface {
	// Generate 生成编码 content 的二维码，返回 base64 编码的 PNG 数据.
	Generate(content string) (string, error)
}

// PNGGenerator 基于 go-qrcode 的默认实现.
type PNGGenerator struct {
	Size int // 图片边长，单位像素
}

// NewPNGGenerator 创建 PNG 二维码生成器，size<=0 时使用默认边长.
func NewPNGGenerator(size int) *PNGGenerator {
	if size <= 0 {
		size = DefaultSize
	}

	return &PNGGenerator{Size: size}
}

// Generate 生成二维码并返回 base64 编码的 PNG.
func (g *PNGGenerator) Generate(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr content is empty")
	}

	png, err := qrcode.Encode(content, qrcode.Medium, g.Size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
