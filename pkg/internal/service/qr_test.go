package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	"github.com/yeisme/mediakiosk/pkg/qrgen"
)

func newTestQRService(t *testing.T) (*QRService, *fakeReporter) {
	t.Helper()

	rep := &fakeReporter{}
	svc := &QRService{
		dbc:      testDB(t),
		presign:  fakePresigner{},
		gen:      qrgen.NewPNGGenerator(128),
		reporter: rep,
	}

	return svc, rep
}

// seedMedia 插入一条活跃媒体记录.
func seedMedia(t *testing.T, svc *QRService, mediaID string) {
	t.Helper()

	rec := &model.MediaRecord{
		MediaID:     mediaID,
		FileName:    "pic.png",
		ContentType: "image/png",
		UserID:      DefaultUserID,
		StoragePath: "media/2026-01-01/" + mediaID + "/pic.png",
		ExpiresAt:   time.Now().Add(24 * time.Hour).Unix(),
		Status:      model.MediaStatusActive,
	}
	if err := svc.dbc.Create(rec).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}
}

func TestNormalizeFrontendURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://viewer.example.com", "https://viewer.example.com/"},
		{"https://viewer.example.com/", "https://viewer.example.com/"},
		{"https://viewer.example.com?media=1", "https://viewer.example.com/?media=1"},
		{"https://viewer.example.com/?media=1", "https://viewer.example.com/?media=1"},
		{"https://viewer.example.com/view?a=1&b=2", "https://viewer.example.com/view/?a=1&b=2"},
	}

	for _, tc := range cases {
		if got := normalizeFrontendURL(tc.in); got != tc.want {
			t.Errorf("normalizeFrontendURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateWithFrontendURL(t *testing.T) {
	svc, rep := newTestQRService(t)
	ctx := context.Background()
	mediaID := strings.Repeat("b", 32)

	seedMedia(t, svc, mediaID)

	resp, err := svc.Generate(ctx, &types.GenerateQRRequest{
		MediaID:     mediaID,
		FrontendURL: "https://viewer.example.com?media=" + mediaID,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := base64.StdEncoding.DecodeString(resp.QRCode); err != nil {
		t.Errorf("qr code is not valid base64: %v", err)
	}

	want := "https://viewer.example.com/?media=" + mediaID
	if resp.Mapping.URL != want {
		t.Errorf("mapping url = %q, want %q", resp.Mapping.URL, want)
	}

	if !rep.reported(types.DimensionQRGeneration) {
		t.Error("expected QR_Code_Generation usage report")
	}

	resolved, err := svc.Resolve(ctx, mediaID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.URL != want {
		t.Errorf("resolved url = %q, want %q", resolved.URL, want)
	}

	if resolved.Status != model.QRStatusActive {
		t.Errorf("resolved status = %q, want active", resolved.Status)
	}
}

// TestGenerateWithoutFrontendURL 不带前端地址时编码预签名下载 URL.
func TestGenerateWithoutFrontendURL(t *testing.T) {
	svc, _ := newTestQRService(t)
	ctx := context.Background()
	mediaID := strings.Repeat("c", 32)

	seedMedia(t, svc, mediaID)

	resp, err := svc.Generate(ctx, &types.GenerateQRRequest{MediaID: mediaID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasPrefix(resp.Mapping.URL, "https://s3.test/download/") {
		t.Errorf("mapping url = %q, want presigned download url", resp.Mapping.URL)
	}
}

// TestGenerateOverwritesMapping 同一媒体重复生成时覆盖旧映射.
func TestGenerateOverwritesMapping(t *testing.T) {
	svc, _ := newTestQRService(t)
	ctx := context.Background()
	mediaID := strings.Repeat("d", 32)

	seedMedia(t, svc, mediaID)

	for _, target := range []string{"https://first.example.com", "https://second.example.com"} {
		if _, err := svc.Generate(ctx, &types.GenerateQRRequest{
			MediaID:     mediaID,
			FrontendURL: target,
		}); err != nil {
			t.Fatalf("generate %q: %v", target, err)
		}
	}

	var count int64
	if err := svc.dbc.Model(&model.QRMapping{}).Where("media_id = ?", mediaID).Count(&count).Error; err != nil {
		t.Fatalf("count mappings: %v", err)
	}

	if count != 1 {
		t.Fatalf("mapping count = %d, want 1", count)
	}

	resolved, err := svc.Resolve(ctx, mediaID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.URL != "https://second.example.com/" {
		t.Errorf("resolved url = %q, want latest target", resolved.URL)
	}
}

func TestGenerateUnknownMedia(t *testing.T) {
	svc, _ := newTestQRService(t)

	_, err := svc.Generate(context.Background(), &types.GenerateQRRequest{
		MediaID:     strings.Repeat("e", 32),
		FrontendURL: "https://viewer.example.com",
	})
	if !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("err = %v, want ErrMediaNotFound", err)
	}
}

func TestResolveUnknown(t *testing.T) {
	svc, _ := newTestQRService(t)

	_, err := svc.Resolve(context.Background(), strings.Repeat("f", 32))
	if !errors.Is(err, ErrQRNotFound) {
		t.Fatalf("err = %v, want ErrQRNotFound", err)
	}
}

// TestResolveExpired 过期映射返回 ErrQRExpired，记录本身保持不变.
func TestResolveExpired(t *testing.T) {
	svc, _ := newTestQRService(t)
	ctx := context.Background()
	mediaID := strings.Repeat("9", 32)

	expired := &model.QRMapping{
		MediaID:   mediaID,
		URL:       "https://viewer.example.com/",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		Status:    model.QRStatusActive,
	}
	if err := svc.dbc.Create(expired).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}

	_, err := svc.Resolve(ctx, mediaID)
	if !errors.Is(err, ErrQRExpired) {
		t.Fatalf("err = %v, want ErrQRExpired", err)
	}

	var after model.QRMapping
	if err := svc.dbc.Where("media_id = ?", mediaID).First(&after).Error; err != nil {
		t.Fatalf("reload mapping: %v", err)
	}

	if after.Status != model.QRStatusActive || after.ExpiresAt != expired.ExpiresAt {
		t.Error("expired mapping must not be mutated by resolve")
	}
}

// TestGenerateHonorsCallerExpiry 请求里的 expires_at 优先于默认有效期.
func TestGenerateHonorsCallerExpiry(t *testing.T) {
	svc, _ := newTestQRService(t)
	ctx := context.Background()
	mediaID := strings.Repeat("1", 32)

	seedMedia(t, svc, mediaID)

	wantExpiry := time.Now().Add(30 * time.Minute).Unix()

	resp, err := svc.Generate(ctx, &types.GenerateQRRequest{
		MediaID:     mediaID,
		FrontendURL: "https://viewer.example.com",
		ExpiresAt:   wantExpiry,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if resp.Mapping.ExpiresAt != wantExpiry {
		t.Errorf("expires_at = %d, want %d", resp.Mapping.ExpiresAt, wantExpiry)
	}
}
