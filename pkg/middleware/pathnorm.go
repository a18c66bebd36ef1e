// Package middleware 提供中间件
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yeisme/mediakiosk/pkg/configs"
)

type pathContextKey string

// originalPathKey 保存规范化前的原始请求路径.
const originalPathKey pathContextKey = "originalPath"

// NormalizePath 将原始请求路径规范化为以 "/" 为根的资源路径.
// 规则按序应用：
//  1. 恰好等于带版本的 API 根（含尾斜杠变体）时返回 API 根，交给目录路由处理；
//  2. 折叠连续重复的版本前缀；
//  3. 无版本的 API 前缀补上版本段；
//  4. 剥离带版本的前缀，留下资源路径；
//  5. 剥离代理/网关阶段前缀，剩余部分重新规范化；
//  6. 以上都不命中时原样返回.
func NormalizePath(raw string, cfg *configs.APIConfig) string {
	if raw == "" {
		return "/"
	}

	base := cfg.BasePath() // 形如 /api/v1
	p := raw

	// 规则 1：API 根（带或不带尾斜杠）
	if p == base || p == base+"/" {
		return base
	}

	// 规则 2：重复版本前缀折叠为一次
	if p == base+base {
		return base
	}

	if strings.HasPrefix(p, base+base+"/") {
		p = strings.TrimPrefix(p, base)
	}

	// 规则 3：无版本 API 前缀补版本段
	if strings.HasPrefix(p, cfg.Prefix+"/") && !strings.HasPrefix(p, base+"/") && p != base {
		p = base + strings.TrimPrefix(p, cfg.Prefix)

		if p == base || p == base+"/" {
			return base
		}
	}

	// 规则 4：剥离带版本前缀
	if strings.HasPrefix(p, base+"/") {
		p = strings.TrimPrefix(p, base)
		if p == "" || p == "/" {
			// 无资源段的 API 路径视为发现请求
			return "/"
		}

		return p
	}

	// 规则 5：剥离代理阶段前缀，剩余部分可能仍带版本前缀
	for _, proxy := range cfg.ProxyPrefixes {
		if proxy == "" || proxy == "/" {
			continue
		}

		if p == proxy || p == proxy+"/" {
			return "/"
		}

		if strings.HasPrefix(p, proxy+"/") {
			return NormalizePath(strings.TrimPrefix(p, proxy), cfg)
		}
	}

	// 规则 6：原样返回
	return p
}

// PathNormalization 在路由匹配前重写请求路径.
// gin 的路由匹配先于中间件执行，因此规范化必须包在引擎外层.
func PathNormalization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := configs.GetConfig().API

		normalized := NormalizePath(r.URL.Path, &cfg)
		if normalized != r.URL.Path {
			ctx := context.WithValue(r.Context(), originalPathKey, r.URL.Path)
			r = r.WithContext(ctx)
			r.URL.Path = normalized
		}

		next.ServeHTTP(w, r)
	})
}

// OriginalPath 返回规范化前的原始路径，未经规范化时即当前路径.
func OriginalPath(r *http.Request) string {
	if v, ok := r.Context().Value(originalPathKey).(string); ok {
		return v
	}

	return r.URL.Path
}
