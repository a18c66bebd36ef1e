package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/mediakiosk/pkg/configs"
	ctxPkg "github.com/yeisme/mediakiosk/pkg/context"
	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/storage/db"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
	"github.com/yeisme/mediakiosk/pkg/qrgen"
)

// QRService 二维码生命周期服务.
type QRService struct {
	dbc      *db.Client
	presign  Presigner
	gen      qrgen.Generator
	reporter UsageReporter
}

// NewQRService 创建并返回一个新的 QRService 实例.
func NewQRService(c context.Context) *QRService {
	svc := &QRService{
		dbc:      ctxPkg.GetDBClient(c),
		gen:      qrgen.NewPNGGenerator(configs.GetConfig().Media.QRSize),
		reporter: NewMarketplaceService(c),
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.presign = s3c
	}

	if svc.dbc == nil {
		nlog.Logger().Warn().Msg("DB client not initialized, QRService features limited")
	}

	return svc
}

// normalizeFrontendURL 规范化前端 URL，保证路径部分以 "/" 结尾.
// 带查询串时在 "?" 之前补斜杠，查询串原样保留.
func normalizeFrontendURL(frontendURL string) string {
	if base, query, ok := strings.Cut(frontendURL, "?"); ok {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		return base + "?" + query
	}

	if !strings.HasSuffix(frontendURL, "/") {
		return frontendURL + "/"
	}

	return frontendURL
}

// Generate 为媒体生成二维码并持久化映射.
// 提供 frontend_url 时编码规范化后的前端地址，否则编码 7 天有效的下载 URL.
func (s *QRService) Generate(ctx context.Context, req *types.GenerateQRRequest) (*types.GenerateQRResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	// 校验媒体存在
	var media model.MediaRecord

	err := s.dbc.WithContext(ctx).Where("media_id = ?", req.MediaID).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("query media %s: %w", req.MediaID, err)
	}

	cfg := configs.GetConfig().Media
	now := time.Now()

	var targetURL string

	if req.FrontendURL != "" {
		targetURL = normalizeFrontendURL(req.FrontendURL)
	} else {
		if s.presign == nil {
			return nil, errors.New("s3 not initialized")
		}

		targetURL, err = s.presign.PresignedDownloadURL(ctx, media.StoragePath, media.ContentType, cfg.GetQRExpiry())
		if err != nil {
			return nil, err
		}
	}

	qrCode, err := s.gen.Generate(targetURL)
	if err != nil {
		return nil, err
	}

	expiresAt := req.ExpiresAt
	if expiresAt == 0 {
		expiresAt = now.Add(cfg.GetQRExpiry()).Unix()
	}

	mapping := &model.QRMapping{
		MediaID:   req.MediaID,
		URL:       targetURL,
		ExpiresAt: expiresAt,
		Status:    model.QRStatusActive,
	}

	// 同一媒体重复生成时覆盖旧映射
	err = s.dbc.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "media_id"}},
		UpdateAll: true,
	}).Create(mapping).Error
	if err != nil {
		return nil, fmt.Errorf("save qr mapping: %w", err)
	}

	if s.reporter != nil {
		s.reporter.ReportUsage(ctx, types.DimensionQRGeneration, 1)
	}

	nlog.Logger().Info().
		Str("media_id", req.MediaID).
		Int64("expires_at", expiresAt).
		Msg("qr mapping created")

	return &types.GenerateQRResponse{
		QRCode:  qrCode,
		MediaID: req.MediaID,
		Mapping: mapping,
	}, nil
}

// Resolve 按 code 查询二维码映射.
// 不存在返回 ErrQRNotFound；已过期返回 ErrQRExpired，记录本身不做任何变更.
func (s *QRService) Resolve(ctx context.Context, code string) (*types.ResolveQRResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	var mapping model.QRMapping

	err := s.dbc.WithContext(ctx).Where("media_id = ?", code).First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQRNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("query qr mapping %s: %w", code, err)
	}

	if mapping.ExpiresAt < time.Now().Unix() {
		return nil, ErrQRExpired
	}

	return &types.ResolveQRResponse{
		URL:       mapping.URL,
		CreatedAt: mapping.CreatedAt.Format(time.RFC3339),
		ExpiresAt: mapping.ExpiresAt,
		Status:    mapping.Status,
	}, nil
}
