package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3Uploader S3 相容後端（AWS S3 或 Cloudflare R2）
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	publicACL     bool
}

// NewS3Uploader 建立 S3 客戶端；有設定 endpoint 時改走 R2 等相容服務
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: s3PublicBaseURL(cfg),
		publicACL:     cfg.PublicACL,
	}, nil
}

// Store 上傳物件並回傳公開 URL
func (u *S3Uploader) Store(ctx context.Context, body io.Reader, contentType string) (string, error) {
	key := newObjectKey(contentType)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if u.publicACL {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", common.Wrap(common.ErrStorage, "failed to upload image", err)
	}

	common.LogDebug("Image uploaded to S3",
		zap.String("bucket", u.bucket),
		zap.String("object", key),
	)
	return u.publicBaseURL + "/" + key, nil
}

// Remove 刪除物件
func (u *S3Uploader) Remove(ctx context.Context, publicURL string) error {
	key, err := objectKeyFromURL(publicURL)
	if err != nil {
		return err
	}
	_, err = u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return common.Wrap(common.ErrStorage, "failed to delete image", err)
	}
	return nil
}

// s3PublicBaseURL 優先使用自訂公開網域（CDN / R2 public bucket）
func s3PublicBaseURL(cfg config.S3Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
