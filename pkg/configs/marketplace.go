package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMarketplaceEnforce     = false
	DefaultMarketplaceCacheTTL    = 3600 // 订阅状态缓存有效期，单位秒
	DefaultMarketplaceValidWindow = 24   // 订阅校验有效窗口，单位小时
)

// MarketplaceConfig AWS Marketplace 计量与订阅配置.
type MarketplaceConfig struct {
	Enforce bool `mapstructure:"enforce"`
	// RegistrationToken 部署级注册令牌；为空视为未通过 Marketplace 订阅
	RegistrationToken string `mapstructure:"registration_token"`
	ProductCode       string `mapstructure:"product_code"`
	Region            string `mapstructure:"region"`
	RegistrationURL   string `mapstructure:"registration_url"`
	CacheTTL          int    `mapstructure:"cache_ttl"    rule:"min=60"`
	ValidWindow       int    `mapstructure:"valid_window" rule:"min=1"`
}

// GetCacheTTL 返回订阅状态缓存有效期作为time.Duration.
func (c *MarketplaceConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// GetValidWindow 返回订阅校验有效窗口作为time.Duration.
func (c *MarketplaceConfig) GetValidWindow() time.Duration {
	return time.Duration(c.ValidWindow) * time.Hour
}

// setDefaults 设置 Marketplace 配置的默认值.
func (c *MarketplaceConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("marketplace.enforce", DefaultMarketplaceEnforce)
	v.SetDefault("marketplace.registration_token", "")
	v.SetDefault("marketplace.product_code", "")
	v.SetDefault("marketplace.region", "us-east-1")
	v.SetDefault("marketplace.registration_url", "")
	v.SetDefault("marketplace.cache_ttl", DefaultMarketplaceCacheTTL)
	v.SetDefault("marketplace.valid_window", DefaultMarketplaceValidWindow)
}
