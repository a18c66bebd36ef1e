package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/mediakiosk/pkg/cache"
	"github.com/yeisme/mediakiosk/pkg/configs"
	"github.com/yeisme/mediakiosk/pkg/internal/model"
	"github.com/yeisme/mediakiosk/pkg/internal/storage/kv"
	mkt "github.com/yeisme/mediakiosk/pkg/internal/storage/marketplace"
	"github.com/yeisme/mediakiosk/pkg/internal/types"
)

// withToken 临时设置注册令牌，测试结束后恢复.
func withToken(t *testing.T, token string) {
	t.Helper()

	cfg := configs.GetConfig()
	old := cfg.Marketplace.RegistrationToken
	cfg.Marketplace.RegistrationToken = token

	t.Cleanup(func() {
		cfg.Marketplace.RegistrationToken = old
	})
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return cache.NewCache(store)
}

func TestCheckSubscriptionNoToken(t *testing.T) {
	withToken(t, "")

	fm := &fakeMetering{}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}

	status := svc.CheckSubscription(context.Background())
	if status.IsSubscribed {
		t.Error("expected not subscribed without token")
	}

	if fm.resolveCalls != 0 {
		t.Errorf("resolve calls = %d, want 0", fm.resolveCalls)
	}
}

// TestCheckSubscriptionCached 兑换结果缓存一个 TTL 窗口，窗口内不重复兑换.
func TestCheckSubscriptionCached(t *testing.T) {
	withToken(t, "tok-abc")

	fm := &fakeMetering{customer: mkt.Customer{CustomerID: "cust-1", ProductCode: "prod-1"}}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}
	ctx := context.Background()

	first := svc.CheckSubscription(ctx)
	if !first.IsSubscribed || first.CustomerID != "cust-1" || first.ProductCode != "prod-1" {
		t.Fatalf("unexpected status: %+v", first)
	}

	for i := 0; i < 3; i++ {
		again := svc.CheckSubscription(ctx)
		if !again.IsSubscribed {
			t.Fatal("cached status lost")
		}
	}

	if fm.resolveCalls != 1 {
		t.Errorf("resolve calls = %d, want 1 (served from cache)", fm.resolveCalls)
	}
}

// TestCheckSubscriptionFailureCached 兑换失败同样缓存，窗口内不重试.
func TestCheckSubscriptionFailureCached(t *testing.T) {
	withToken(t, "tok-bad")

	fm := &fakeMetering{resolveErr: errors.New("throttled")}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}
	ctx := context.Background()

	status := svc.CheckSubscription(ctx)
	if status.IsSubscribed {
		t.Error("expected not subscribed on resolve failure")
	}

	_ = svc.CheckSubscription(ctx)

	if fm.resolveCalls != 1 {
		t.Errorf("resolve calls = %d, want 1 (failure cached)", fm.resolveCalls)
	}
}

func TestReportUsageNotSubscribed(t *testing.T) {
	withToken(t, "")

	fm := &fakeMetering{}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}

	if svc.ReportUsage(context.Background(), types.DimensionMediaUpload, 1) {
		t.Error("expected report skipped without subscription")
	}

	if fm.meterCalls != 0 {
		t.Errorf("meter calls = %d, want 0", fm.meterCalls)
	}
}

func TestReportUsageOK(t *testing.T) {
	withToken(t, "tok-ok")

	fm := &fakeMetering{customer: mkt.Customer{CustomerID: "cust-2", ProductCode: "prod-2"}}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}

	if !svc.ReportUsage(context.Background(), types.DimensionQRGeneration, 1) {
		t.Fatal("expected report to succeed")
	}

	if fm.meterCalls != 1 {
		t.Errorf("meter calls = %d, want 1", fm.meterCalls)
	}
}

// TestReportUsageFailureSwallowed 计量失败只返回 false，不向上传播.
func TestReportUsageFailureSwallowed(t *testing.T) {
	withToken(t, "tok-meter-fail")

	fm := &fakeMetering{
		customer: mkt.Customer{CustomerID: "cust-3", ProductCode: "prod-3"},
		meterErr: errors.New("metering unavailable"),
	}
	svc := &MarketplaceService{cache: newTestCache(t), metering: fm}

	if svc.ReportUsage(context.Background(), types.DimensionMediaDownload, 1) {
		t.Error("expected report to fail quietly")
	}
}

func TestRegisterEntitlementAndValidate(t *testing.T) {
	fm := &fakeMetering{customer: mkt.Customer{CustomerID: "cust-reg", ProductCode: "prod-reg"}}
	svc := &MarketplaceService{dbc: testDB(t), cache: newTestCache(t), metering: fm}
	ctx := context.Background()

	resp, err := svc.RegisterEntitlement(ctx, &types.RegisterEntitlementRequest{
		RegistrationToken: "tok-reg",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.UserID != DefaultUserID || resp.CustomerID != "cust-reg" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	valid, err := svc.ValidateAccess(ctx, DefaultUserID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if !valid.Valid {
		t.Errorf("expected valid entitlement: %+v", valid)
	}

	unknown, err := svc.ValidateAccess(ctx, "ghost")
	if err != nil {
		t.Fatalf("validate unknown: %v", err)
	}

	if unknown.Valid {
		t.Error("unknown user must not be valid")
	}
}

// TestValidateAccessStale 超过有效窗口的授权被拒绝，需要重新注册.
func TestValidateAccessStale(t *testing.T) {
	fm := &fakeMetering{customer: mkt.Customer{CustomerID: "cust-stale", ProductCode: "prod-stale"}}
	svc := &MarketplaceService{dbc: testDB(t), cache: newTestCache(t), metering: fm}
	ctx := context.Background()

	if _, err := svc.RegisterEntitlement(ctx, &types.RegisterEntitlementRequest{
		RegistrationToken: "tok-stale",
		UserID:            "alice",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 默认有效窗口 24 小时
	err := svc.dbc.Model(&model.Entitlement{}).
		Where("user_id = ?", "alice").
		Update("last_validated_at", time.Now().Add(-25*time.Hour)).Error
	if err != nil {
		t.Fatalf("age entitlement: %v", err)
	}

	resp, err := svc.ValidateAccess(ctx, "alice")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if resp.Valid {
		t.Error("stale entitlement must not be valid")
	}
}

func TestRegisterEntitlementInvalidToken(t *testing.T) {
	fm := &fakeMetering{customer: mkt.Customer{}}
	svc := &MarketplaceService{dbc: testDB(t), cache: newTestCache(t), metering: fm}

	_, err := svc.RegisterEntitlement(context.Background(), &types.RegisterEntitlementRequest{
		RegistrationToken: "tok-empty",
	})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
