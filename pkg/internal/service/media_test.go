package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
)

func newTestMediaService(t *testing.T) (*MediaService, *fakeReporter) {
	t.Helper()

	rep := &fakeReporter{}
	svc := &MediaService{
		dbc:      testDB(t),
		presign:  fakePresigner{},
		reporter: rep,
	}

	return svc, rep
}

func TestCreateUploadTarget(t *testing.T) {
	svc, rep := newTestMediaService(t)
	ctx := context.Background()

	resp, err := svc.CreateUploadTarget(ctx, &types.CreateMediaRequest{
		FileName:    "photo.png",
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("create upload target: %v", err)
	}

	if len(resp.MediaID) != 32 {
		t.Errorf("media id length = %d, want 32", len(resp.MediaID))
	}

	if strings.Contains(resp.MediaID, "-") {
		t.Errorf("media id %q must not contain hyphens", resp.MediaID)
	}

	if !strings.HasPrefix(resp.UploadURL, "https://s3.test/upload/media/") {
		t.Errorf("unexpected upload url %q", resp.UploadURL)
	}

	meta := resp.Metadata
	if meta.UserID != DefaultUserID {
		t.Errorf("user id = %q, want %q", meta.UserID, DefaultUserID)
	}

	if !strings.HasPrefix(meta.StoragePath, "media/") ||
		!strings.Contains(meta.StoragePath, resp.MediaID) ||
		!strings.HasSuffix(meta.StoragePath, "/photo.png") {
		t.Errorf("unexpected storage path %q", meta.StoragePath)
	}

	// 默认保留 7 天，过期时间由服务端计算
	wantExpiry := time.Now().Add(7 * 24 * time.Hour).Unix()
	if meta.ExpiresAt < wantExpiry-5 || meta.ExpiresAt > wantExpiry+5 {
		t.Errorf("expires_at = %d, want about %d", meta.ExpiresAt, wantExpiry)
	}

	if !rep.reported(types.DimensionMediaUpload) {
		t.Error("expected Media_Upload usage report")
	}
}

// TestCreateUploadTargetStripsDirectories 文件名中的目录部分必须被剥离.
func TestCreateUploadTargetStripsDirectories(t *testing.T) {
	svc, _ := newTestMediaService(t)
	ctx := context.Background()

	cases := []struct {
		in   string
		want string
	}{
		{"../../etc/passwd", "passwd"},
		{"dir/sub/report.pdf", "report.pdf"},
		{"c:\\users\\me\\pic.jpg", "pic.jpg"},
		{"plain.txt", "plain.txt"},
	}

	for _, tc := range cases {
		resp, err := svc.CreateUploadTarget(ctx, &types.CreateMediaRequest{
			FileName:    tc.in,
			ContentType: "application/octet-stream",
		})
		if err != nil {
			t.Fatalf("create %q: %v", tc.in, err)
		}

		if resp.Metadata.FileName != tc.want {
			t.Errorf("file name for %q = %q, want %q", tc.in, resp.Metadata.FileName, tc.want)
		}
	}
}

func TestCreateUploadTargetInvalidFileName(t *testing.T) {
	svc, _ := newTestMediaService(t)

	for _, name := range []string{"", "/"} {
		_, err := svc.CreateUploadTarget(context.Background(), &types.CreateMediaRequest{
			FileName:    name,
			ContentType: "image/png",
		})
		if err == nil {
			t.Errorf("expected error for file name %q", name)
		}
	}
}

func TestGetDownloadTarget(t *testing.T) {
	svc, rep := newTestMediaService(t)
	ctx := context.Background()

	created, err := svc.CreateUploadTarget(ctx, &types.CreateMediaRequest{
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.GetDownloadTarget(ctx, created.MediaID)
	if err != nil {
		t.Fatalf("get download target: %v", err)
	}

	// 下载 URL 必须透传记录的内容类型
	if !strings.Contains(resp.DownloadURL, "response-content-type=video/mp4") {
		t.Errorf("download url %q missing content type", resp.DownloadURL)
	}

	if resp.Metadata.MediaID != created.MediaID {
		t.Errorf("metadata media id = %q, want %q", resp.Metadata.MediaID, created.MediaID)
	}

	if !rep.reported(types.DimensionMediaDownload) {
		t.Error("expected Media_Download usage report")
	}
}

func TestGetDownloadTargetNotFound(t *testing.T) {
	svc, _ := newTestMediaService(t)

	_, err := svc.GetDownloadTarget(context.Background(), strings.Repeat("0", 32))
	if !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("err = %v, want ErrMediaNotFound", err)
	}
}

func TestGetDownloadTargetExpired(t *testing.T) {
	svc, _ := newTestMediaService(t)
	ctx := context.Background()

	rec := &model.MediaRecord{
		MediaID:     strings.Repeat("a", 32),
		FileName:    "old.png",
		ContentType: "image/png",
		UserID:      DefaultUserID,
		StoragePath: "media/2020-01-01/" + strings.Repeat("a", 32) + "/old.png",
		ExpiresAt:   time.Now().Add(-time.Hour).Unix(),
		Status:      model.MediaStatusActive,
	}
	if err := svc.dbc.WithContext(ctx).Create(rec).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	_, err := svc.GetDownloadTarget(ctx, rec.MediaID)
	if !errors.Is(err, ErrMediaExpired) {
		t.Fatalf("err = %v, want ErrMediaExpired", err)
	}
}
