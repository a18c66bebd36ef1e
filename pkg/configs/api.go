package configs

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultAPIPrefix  = "/api" // API 路径前缀
	DefaultAPIVersion = "v1"   // API 版本
)

// APIConfig API 路由配置.
// ProxyPrefixes 列出网关或代理可能附加的路径前缀，
// 路径规范化中间件会在路由前剥离这些前缀.
type APIConfig struct {
	Prefix        string   `mapstructure:"prefix"`
	Version       string   `mapstructure:"version"`
	ProxyPrefixes []string `mapstructure:"proxy_prefixes"`
}

// BasePath 返回完整的 API 基础路径，如 /api/v1.
func (c *APIConfig) BasePath() string {
	return strings.TrimSuffix(c.Prefix, "/") + "/" + c.Version
}

// setDefaults 设置 API 配置的默认值.
func (c *APIConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("api.prefix", DefaultAPIPrefix)
	v.SetDefault("api.version", DefaultAPIVersion)
	v.SetDefault("api.proxy_prefixes", []string{"/default", "/prod", "/staging"})
}
