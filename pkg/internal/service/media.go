package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeisme/mediakiosk/pkg/configs"
	ctxPkg "github.com/yeisme/mediakiosk/pkg/context"
	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/storage/db"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
	"github.com/yeisme/mediakiosk/pkg/metrics"
)

// Presigner 签发时限对象访问 URL 的抽象，便于测试替换.
type Presigner interface {
	PresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	PresignedDownloadURL(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error)
}

// UsageReporter 计量上报抽象；上报失败不影响主流程.
type UsageReporter interface {
	ReportUsage(ctx context.Context, dimension types.UsageDimension, quantity int32) bool
}

// MediaService 媒体生命周期服务.
type MediaService struct {
	dbc      *db.Client
	presign  Presigner
	reporter UsageReporter
}

// NewMediaService 创建并返回一个新的 MediaService 实例.
func NewMediaService(c context.Context) *MediaService {
	svc := &MediaService{
		dbc:      ctxPkg.GetDBClient(c),
		reporter: NewMarketplaceService(c),
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.presign = s3c
	}

	if svc.dbc == nil {
		nlog.Logger().Warn().Msg("DB client not initialized, MediaService features limited")
	}

	return svc
}

// newMediaID 生成 32 位无连字符的媒体标识.
func newMediaID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// buildStoragePath 构建对象存储路径：media/{日期}/{标识}/{文件名}.
// 路径在创建时确定，之后不再变更.
func buildStoragePath(mediaID, fileName string, now time.Time) string {
	return fmt.Sprintf("media/%s/%s/%s", now.UTC().Format("2006-01-02"), mediaID, fileName)
}

// CreateUploadTarget 生成上传目标：预签名写 URL + 持久化元数据.
// 文件名中的目录部分被剥离；过期时间总是由服务端计算，忽略请求中的 expires_at.
func (s *MediaService) CreateUploadTarget(ctx context.Context, req *types.CreateMediaRequest) (*types.CreateMediaResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	if s.presign == nil {
		return nil, errors.New("s3 not initialized")
	}

	cfg := configs.GetConfig().Media
	now := time.Now()

	fileName := path.Base(strings.ReplaceAll(req.FileName, "\\", "/"))
	if fileName == "." || fileName == "/" || fileName == "" {
		return nil, fmt.Errorf("invalid file_name: %q", req.FileName)
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	mediaID := newMediaID()
	storagePath := buildStoragePath(mediaID, fileName, now)

	rec := &model.MediaRecord{
		MediaID:     mediaID,
		FileName:    fileName,
		ContentType: req.ContentType,
		UserID:      userID,
		StoragePath: storagePath,
		ExpiresAt:   now.Add(cfg.GetExpiration()).Unix(),
		Status:      model.MediaStatusActive,
	}

	if req.ThemeOptions != nil {
		b, err := sonic.Marshal(req.ThemeOptions)
		if err != nil {
			return nil, fmt.Errorf("marshal theme options: %w", err)
		}

		rec.ThemeOptions = string(b)
	}

	uploadURL, err := s.presign.PresignedUploadURL(ctx, storagePath, cfg.GetUploadURLTTL())
	if err != nil {
		return nil, err
	}

	if err := s.dbc.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("save media metadata: %w", err)
	}

	metrics.PresignedURLCounter.WithLabelValues("upload").Inc()

	if s.reporter != nil {
		s.reporter.ReportUsage(ctx, types.DimensionMediaUpload, 1)
	}

	nlog.Logger().Info().
		Str("media_id", mediaID).
		Str("storage_path", storagePath).
		Msg("upload target created")

	return &types.CreateMediaResponse{
		UploadURL: uploadURL,
		MediaID:   mediaID,
		Metadata:  rec,
	}, nil
}

// GetDownloadTarget 查询媒体记录并签发预签名读 URL.
// 记录不存在返回 ErrMediaNotFound；已过保留期返回 ErrMediaExpired.
func (s *MediaService) GetDownloadTarget(ctx context.Context, mediaID string) (*types.GetMediaResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	if s.presign == nil {
		return nil, errors.New("s3 not initialized")
	}

	rec, err := s.findMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if rec.ExpiresAt > 0 && rec.ExpiresAt < time.Now().Unix() {
		return nil, ErrMediaExpired
	}

	cfg := configs.GetConfig().Media

	downloadURL, err := s.presign.PresignedDownloadURL(ctx, rec.StoragePath, rec.ContentType, cfg.GetDownloadURLTTL())
	if err != nil {
		return nil, err
	}

	metrics.PresignedURLCounter.WithLabelValues("download").Inc()

	if s.reporter != nil {
		s.reporter.ReportUsage(ctx, types.DimensionMediaDownload, 1)
	}

	return &types.GetMediaResponse{
		DownloadURL: downloadURL,
		Metadata:    rec,
	}, nil
}

// findMedia 按 media_id 查询记录，未找到映射为 ErrMediaNotFound.
func (s *MediaService) findMedia(ctx context.Context, mediaID string) (*model.MediaRecord, error) {
	var rec model.MediaRecord

	err := s.dbc.WithContext(ctx).Where("media_id = ?", mediaID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("query media %s: %w", mediaID, err)
	}

	return &rec, nil
}
