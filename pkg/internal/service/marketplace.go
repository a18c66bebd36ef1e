package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/mediakiosk/pkg/cache"
	"github.com/yeisme/mediakiosk/pkg/configs"
	ctxPkg "github.com/yeisme/mediakiosk/pkg/context"
	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/storage/db"
	mkt "github.com/yeisme/mediakiosk/pkg/internal/storage/marketplace"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
	"github.com/yeisme/mediakiosk/pkg/metrics"
)

// subscriptionCacheKey 进程级订阅状态缓存键.
const subscriptionCacheKey = "marketplace:status"

// MeteringClient Marketplace 计量客户端抽象.
type MeteringClient interface {
	ResolveCustomer(ctx context.Context, registrationToken string) (*mkt.Customer, error)
	MeterUsage(ctx context.Context, customerID, productCode, dimension string, quantity int32) error
}

var (
	// 兑换请求的熔断器与去重组，进程级共享
	resolveBreaker *gobreaker.CircuitBreaker
	breakerOnce    sync.Once
	resolveGroup   singleflight.Group

	meteringOnce   sync.Once
	meteringClient MeteringClient
	meteringErr    error
)

// getBreaker 懒初始化订阅兑换熔断器.
func getBreaker() *gobreaker.CircuitBreaker {
	breakerOnce.Do(func() {
		cfg := configs.GetConfig().CircuitBreaker
		settings := gobreaker.Settings{
			Name:        "marketplace-resolve",
			MaxRequests: cfg.MaxRequestsInHalf,
			Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
			Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				total := counts.Requests
				if total < cfg.MinRequests {
					return false
				}

				failureRate := float64(counts.TotalFailures) / float64(total)

				return failureRate >= cfg.FailureRate
			},
		}
		resolveBreaker = gobreaker.NewCircuitBreaker(settings)
	})

	return resolveBreaker
}

// getMeteringClient 懒初始化 AWS 计量客户端，失败结果同样缓存.
func getMeteringClient(ctx context.Context) (MeteringClient, error) {
	meteringOnce.Do(func() {
		meteringClient, meteringErr = mkt.New(ctx)
	})

	return meteringClient, meteringErr
}

// MarketplaceService Marketplace 订阅与计量服务.
type MarketplaceService struct {
	dbc      *db.Client
	cache    *cache.Cache
	metering MeteringClient
}

// NewMarketplaceService 创建并返回一个新的 MarketplaceService 实例.
func NewMarketplaceService(c context.Context) *MarketplaceService {
	svc := &MarketplaceService{
		dbc: ctxPkg.GetDBClient(c),
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		svc.cache = cache.NewCache(kvc)
	}

	return svc
}

// meter 返回计量客户端，优先使用注入的实例（测试用）.
func (s *MarketplaceService) meter(ctx context.Context) (MeteringClient, error) {
	if s.metering != nil {
		return s.metering, nil
	}

	return getMeteringClient(ctx)
}

// CheckSubscription 检查订阅状态，结果缓存一个 TTL 窗口.
// 无令牌与兑换失败同样产出"未订阅"并缓存，窗口内不重试.
func (s *MarketplaceService) CheckSubscription(ctx context.Context) *types.SubscriptionStatus {
	cfg := configs.GetConfig().Marketplace

	if s.cache != nil {
		if status, err := cache.Get[types.SubscriptionStatus](ctx, s.cache, subscriptionCacheKey); err == nil {
			return &status
		}
	}

	// 并发未命中时只放行一次兑换
	v, _, _ := resolveGroup.Do(subscriptionCacheKey, func() (any, error) {
		status := s.resolveSubscription(ctx, cfg)

		if s.cache != nil {
			if err := cache.Set(ctx, s.cache, subscriptionCacheKey, *status, cfg.GetCacheTTL()); err != nil {
				nlog.Logger().Warn().Err(err).Msg("failed to cache subscription status")
			}
		}

		return status, nil
	})

	status, ok := v.(*types.SubscriptionStatus)
	if !ok {
		return &types.SubscriptionStatus{
			IsSubscribed: false,
			CustomerID:   DefaultUserID,
			Message:      "Subscription check failed",
		}
	}

	return status
}

// resolveSubscription 执行一次真实的令牌兑换.
func (s *MarketplaceService) resolveSubscription(ctx context.Context, cfg configs.MarketplaceConfig) *types.SubscriptionStatus {
	if cfg.RegistrationToken == "" {
		return &types.SubscriptionStatus{
			IsSubscribed: false,
			CustomerID:   DefaultUserID,
			Message:      "No marketplace registration token found",
		}
	}

	customer, err := s.resolveCustomer(ctx, cfg.RegistrationToken)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("failed to check marketplace subscription")

		return &types.SubscriptionStatus{
			IsSubscribed: false,
			CustomerID:   DefaultUserID,
			Message:      fmt.Sprintf("Subscription check failed: %v", err),
		}
	}

	if customer.CustomerID == "" {
		return &types.SubscriptionStatus{
			IsSubscribed: false,
			CustomerID:   DefaultUserID,
			Message:      "Invalid marketplace registration token",
		}
	}

	nlog.Logger().Info().Str("customer_id", customer.CustomerID).Msg("marketplace subscription active")

	return &types.SubscriptionStatus{
		IsSubscribed: true,
		CustomerID:   customer.CustomerID,
		ProductCode:  customer.ProductCode,
		Message:      "Active marketplace subscription",
	}
}

// resolveCustomer 经熔断器执行令牌兑换.
func (s *MarketplaceService) resolveCustomer(ctx context.Context, token string) (*mkt.Customer, error) {
	client, err := s.meter(ctx)
	if err != nil {
		return nil, err
	}

	v, err := getBreaker().Execute(func() (any, error) {
		return client.ResolveCustomer(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	customer, ok := v.(*mkt.Customer)
	if !ok {
		return nil, errors.New("unexpected resolve customer result")
	}

	return customer, nil
}

// ReportUsage 上报一条用量记录.
// 未订阅或缺少产品代码时直接返回 false；上报失败只记录日志，不向上传播.
func (s *MarketplaceService) ReportUsage(ctx context.Context, dimension types.UsageDimension, quantity int32) bool {
	status := s.CheckSubscription(ctx)

	if !status.IsSubscribed {
		nlog.Logger().Debug().Msg("skipping marketplace usage reporting, no active subscription")
		metrics.UsageReportCounter.WithLabelValues(string(dimension), "skipped").Inc()

		return false
	}

	if status.ProductCode == "" {
		nlog.Logger().Warn().Msg("no product code available from marketplace subscription")
		metrics.UsageReportCounter.WithLabelValues(string(dimension), "skipped").Inc()

		return false
	}

	client, err := s.meter(ctx)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("metering client unavailable")
		metrics.UsageReportCounter.WithLabelValues(string(dimension), "failed").Inc()

		return false
	}

	if err := client.MeterUsage(ctx, status.CustomerID, status.ProductCode, string(dimension), quantity); err != nil {
		nlog.Logger().Warn().Err(err).Str("dimension", string(dimension)).Msg("failed to report marketplace usage")
		metrics.UsageReportCounter.WithLabelValues(string(dimension), "failed").Inc()

		return false
	}

	metrics.UsageReportCounter.WithLabelValues(string(dimension), "ok").Inc()

	return true
}

// RegisterEntitlement 用注册令牌兑换客户身份并落库授权记录.
func (s *MarketplaceService) RegisterEntitlement(ctx context.Context, req *types.RegisterEntitlementRequest) (*types.RegisterEntitlementResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	customer, err := s.resolveCustomer(ctx, req.RegistrationToken)
	if err != nil {
		return nil, fmt.Errorf("resolve registration token: %w", err)
	}

	if customer.CustomerID == "" {
		return nil, ErrInvalidToken
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	ent := &model.Entitlement{
		UserID:          userID,
		CustomerID:      customer.CustomerID,
		ProductCode:     customer.ProductCode,
		Status:          model.EntitlementStatusActive,
		LastValidatedAt: time.Now(),
	}

	// 同一用户重复注册时刷新授权
	err = s.dbc.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(ent).Error
	if err != nil {
		return nil, fmt.Errorf("save entitlement: %w", err)
	}

	// 注册成功后使订阅缓存失效，下一次检查重新兑换
	if s.cache != nil {
		if err := s.cache.Delete(ctx, subscriptionCacheKey); err != nil {
			nlog.Logger().Warn().Err(err).Msg("failed to invalidate subscription cache")
		}
	}

	nlog.Logger().Info().
		Str("user_id", userID).
		Str("customer_id", customer.CustomerID).
		Msg("marketplace entitlement registered")

	return &types.RegisterEntitlementResponse{
		UserID:     userID,
		CustomerID: customer.CustomerID,
		Status:     ent.Status,
		Message:    "Marketplace registration successful",
	}, nil
}

// ValidateAccess 校验用户授权：状态为 active 且最近校验时间在有效窗口内.
// 窗口外的授权按失效处理，需要重新注册.
func (s *MarketplaceService) ValidateAccess(ctx context.Context, userID string) (*types.ValidateAccessResponse, error) {
	if s.dbc == nil || s.dbc.GetDB() == nil {
		return nil, errors.New("db not initialized")
	}

	if userID == "" {
		userID = DefaultUserID
	}

	var ent model.Entitlement

	err := s.dbc.WithContext(ctx).Where("user_id = ?", userID).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.ValidateAccessResponse{
			Valid:   false,
			UserID:  userID,
			Message: "No marketplace entitlement found",
		}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query entitlement %s: %w", userID, err)
	}

	if ent.Status != model.EntitlementStatusActive {
		return &types.ValidateAccessResponse{
			Valid:   false,
			UserID:  userID,
			Message: fmt.Sprintf("Entitlement status is %s", ent.Status),
		}, nil
	}

	window := configs.GetConfig().Marketplace.GetValidWindow()
	if time.Since(ent.LastValidatedAt) > window {
		return &types.ValidateAccessResponse{
			Valid:   false,
			UserID:  userID,
			Message: "Entitlement validation expired, re-registration required",
		}, nil
	}

	return &types.ValidateAccessResponse{
		Valid:   true,
		UserID:  userID,
		Message: "Entitlement is active",
	}, nil
}
