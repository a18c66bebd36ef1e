package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yeisme/mediakiosk/pkg/configs"
	"github.com/yeisme/mediakiosk/pkg/middleware"
)

func apiConfig() *configs.APIConfig {
	return &configs.APIConfig{
		Prefix:        "/api",
		Version:       "v1",
		ProxyPrefixes: []string{"/default", "/prod", "/staging"},
	}
}

func TestNormalizePath(t *testing.T) {
	cfg := apiConfig()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "/"},
		{"root", "/", "/"},
		{"api root", "/api/v1", "/api/v1"},
		{"api root trailing slash", "/api/v1/", "/api/v1"},
		{"api root without version", "/api", "/api"},
		{"versioned resource", "/api/v1/media", "/media"},
		{"versioned nested resource", "/api/v1/qr/abc123", "/qr/abc123"},
		{"unversioned resource", "/api/media", "/media"},
		{"doubled api root", "/api/v1/api/v1", "/api/v1"},
		{"doubled prefix resource", "/api/v1/api/v1/media", "/media"},
		{"proxy prefix only", "/default", "/"},
		{"proxy prefix trailing slash", "/prod/", "/"},
		{"proxy then versioned", "/default/api/v1/media", "/media"},
		{"proxy then unversioned", "/prod/api/media/xyz", "/media/xyz"},
		{"proxy then api root", "/staging/api/v1", "/api/v1"},
		{"bare resource unchanged", "/media/abc", "/media/abc"},
		{"unknown prefix unchanged", "/other/media", "/other/media"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := middleware.NormalizePath(tc.in, cfg)
			if got != tc.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestNormalizePathConvergence 同一资源的所有前缀变体必须归一到同一路径.
func TestNormalizePathConvergence(t *testing.T) {
	cfg := apiConfig()

	variants := []string{
		"/media/abc",
		"/api/v1/media/abc",
		"/api/media/abc",
		"/default/api/v1/media/abc",
		"/prod/api/media/abc",
		"/staging/media/abc",
	}

	for _, v := range variants {
		if got := middleware.NormalizePath(v, cfg); got != "/media/abc" {
			t.Errorf("NormalizePath(%q) = %q, want %q", v, got, "/media/abc")
		}
	}
}

func TestPathNormalizationHandler(t *testing.T) {
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	var gotPath, gotOriginal, gotQuery string

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOriginal = middleware.OriginalPath(r)
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	})

	h := middleware.PathNormalization(inner)

	req := httptest.NewRequest(http.MethodGet, "/default/api/v1/media/abc?x=1&y=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if gotPath != "/media/abc" {
		t.Errorf("normalized path = %q, want %q", gotPath, "/media/abc")
	}

	if gotOriginal != "/default/api/v1/media/abc" {
		t.Errorf("original path = %q, want %q", gotOriginal, "/default/api/v1/media/abc")
	}

	if gotQuery != "x=1&y=2" {
		t.Errorf("query = %q, want preserved", gotQuery)
	}
}

// TestPathNormalizationPassthrough 已规范化的路径不应写入原始路径上下文.
func TestPathNormalizationPassthrough(t *testing.T) {
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/abc" {
			t.Errorf("path = %q, want unchanged", r.URL.Path)
		}

		if middleware.OriginalPath(r) != "/media/abc" {
			t.Errorf("original path = %q, want current path", middleware.OriginalPath(r))
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/media/abc", nil)
	middleware.PathNormalization(inner).ServeHTTP(httptest.NewRecorder(), req)
}
