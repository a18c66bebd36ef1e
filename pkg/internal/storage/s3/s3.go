// Package s3 处理S3存储操作.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/mediakiosk/pkg/configs"
	nlog "github.com/yeisme/mediakiosk/pkg/log"
)

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("mediakiosk", configs.AppVersion)

	// ensure bucket
	if cfg.Bucket != "" {
		exists, err := cli.BucketExists(ctx, cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
		}

		if !exists {
			if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
			}

			nlog.Logger().Info().Str("bucket", cfg.Bucket).Msg("bucket created")
		}
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("s3 connected")

	return &Client{Client: cli}, nil
}

// PresignedUploadURL 为对象键生成预签名 PUT URL.
func (c *Client) PresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := c.PresignedPutObject(ctx, c.GetConfig().Bucket, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("presign put for %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// PresignedDownloadURL 为对象键生成预签名 GET URL.
// contentType 非空时通过 response-content-type 响应头参数覆盖后端返回的 MIME 类型.
func (c *Client) PresignedDownloadURL(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error) {
	var params url.Values
	if contentType != "" {
		params = url.Values{}
		params.Set("response-content-type", contentType)
	}

	u, err := c.PresignedGetObject(ctx, c.GetConfig().Bucket, objectKey, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign get for %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

func (c *Client) GetConfig() configs.S3Config {
	return configs.GetConfig().S3
}
