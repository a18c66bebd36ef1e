// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/mediakiosk/pkg/context"
	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/service"
	"github.com/yeisme/mediakiosk/pkg/internal/storage"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	"github.com/yeisme/mediakiosk/pkg/log"
	"github.com/yeisme/mediakiosk/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:20 将已过期的媒体记录标记为 expired
//   - 每天 03:40 将已过期的二维码映射标记为 expired
//   - 每小时整点上报一次 Usage_Hours 计量
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:20 标记过期媒体
	_ = sched.AddCron(JobMediaExpireSweep, CronMediaExpireSweep, func(ctx context.Context) {
		runMediaExpireSweep(ctx, mgr)
	}, baseCtx)

	// 每天 03:40 标记过期二维码映射
	_ = sched.AddCron(JobQRExpireSweep, CronQRExpireSweep, func(ctx context.Context) {
		runQRExpireSweep(ctx, mgr)
	}, baseCtx)

	// 每小时上报运行时长计量
	_ = sched.AddCron(JobUsageHoursReport, CronUsageHoursReport, func(ctx context.Context) {
		runUsageHoursReport(ctx)
	}, baseCtx)

	return nil
}

// runMediaExpireSweep 将 expires_at 已过的活跃媒体记录标记为 expired。
// 记录本身保留，读取路径依旧按 expires_at 判定 410。
func runMediaExpireSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", "media.expire.sweep").Logger()

	dbx, err := jobDB(ctx, mgr)
	if err != nil {
		l.Error().Err(err).Msg("db not available")
		return
	}

	now := time.Now().Unix()

	res := dbx.Model(&model.MediaRecord{}).
		Where("status = ? AND expires_at > 0 AND expires_at < ?", model.MediaStatusActive, now).
		Update("status", model.MediaStatusExpired)
	if res.Error != nil {
		l.Error().Err(res.Error).Msg("media expire sweep failed")
		return
	}

	if res.RowsAffected > 0 {
		l.Info().Int64("affected", res.RowsAffected).Msg("marked expired media records")
	}
}

// runQRExpireSweep 将 expires_at 已过的活跃二维码映射标记为 expired。
func runQRExpireSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", "qr.expire.sweep").Logger()

	dbx, err := jobDB(ctx, mgr)
	if err != nil {
		l.Error().Err(err).Msg("db not available")
		return
	}

	now := time.Now().Unix()

	res := dbx.Model(&model.QRMapping{}).
		Where("status = ? AND expires_at > 0 AND expires_at < ?", model.QRStatusActive, now).
		Update("status", model.QRStatusExpired)
	if res.Error != nil {
		l.Error().Err(res.Error).Msg("qr expire sweep failed")
		return
	}

	if res.RowsAffected > 0 {
		l.Info().Int64("affected", res.RowsAffected).Msg("marked expired qr mappings")
	}
}

// runUsageHoursReport 每小时上报一次 Usage_Hours 维度，仅在订阅有效时上报。
func runUsageHoursReport(ctx context.Context) {
	l := log.Logger().With().Str("job", "marketplace.usage_hours.report").Logger()

	svc := service.NewMarketplaceService(ctx)

	status := svc.CheckSubscription(ctx)
	if !status.IsSubscribed {
		return
	}

	if svc.ReportUsage(ctx, types.DimensionUsageHours, 1) {
		l.Info().Msg("reported usage hours")
	}
}

// jobDB 获取带 context 的 gorm 句柄。
func jobDB(ctx context.Context, mgr *storage.Manager) (*gorm.DB, error) {
	if mgr == nil || mgr.GetDBClient() == nil || mgr.GetDBClient().GetDB() == nil {
		return nil, fmt.Errorf("db not initialized")
	}

	return mgr.GetDBClient().GetDB().WithContext(ctx), nil
}
