package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobMediaExpireSweep = "media.expire.sweep"
	JobQRExpireSweep    = "qr.expire.sweep"
	JobUsageHoursReport = "marketplace.usage_hours.report"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronMediaExpireSweep = "20 3 * * *"
	CronQRExpireSweep    = "40 3 * * *"
	CronUsageHoursReport = "0 * * * *"
)
