// Package marketplace 封装 AWS Marketplace Metering 客户端，
// 提供注册令牌兑换与用量计量上报.
package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/marketplacemetering"
	meteringtypes "github.com/aws/aws-sdk-go-v2/service/marketplacemetering/types"

	"github.com/yeisme/mediakiosk/pkg/configs"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
)

// Client 包装 Marketplace Metering 客户端.
type Client struct {
	metering *marketplacemetering.Client
}

// New 初始化 Marketplace Metering 客户端，区域取自配置.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().Marketplace

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	nlog.Logger().Info().Str("region", cfg.Region).Msg("marketplace metering client initialized")

	return &Client{metering: marketplacemetering.NewFromConfig(awsCfg)}, nil
}

// Customer 注册令牌兑换结果.
type Customer struct {
	CustomerID  string
	ProductCode string
}

// ResolveCustomer 用注册令牌兑换客户身份.
// 令牌无效时返回空 CustomerID，调用方据此判定订阅无效.
func (c *Client) ResolveCustomer(ctx context.Context, registrationToken string) (*Customer, error) {
	out, err := c.metering.ResolveCustomer(ctx, &marketplacemetering.ResolveCustomerInput{
		RegistrationToken: aws.String(registrationToken),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	return &Customer{
		CustomerID:  aws.ToString(out.CustomerIdentifier),
		ProductCode: aws.ToString(out.ProductCode),
	}, nil
}

// MeterUsage 上报一条用量记录.
func (c *Client) MeterUsage(ctx context.Context, customerID, productCode, dimension string, quantity int32) error {
	_, err := c.metering.BatchMeterUsage(ctx, &marketplacemetering.BatchMeterUsageInput{
		ProductCode: aws.String(productCode),
		UsageRecords: []meteringtypes.UsageRecord{
			{
				Timestamp:          aws.Time(time.Now().UTC()),
				CustomerIdentifier: aws.String(customerID),
				Dimension:          aws.String(dimension),
				Quantity:           aws.Int32(quantity),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("batch meter usage: %w", err)
	}

	return nil
}
