package storage

import (
	"context"
	"fmt"
	"io"

	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/pkg/common"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSUploader Google Cloud Storage 後端
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader 以設定中的憑證檔建立 GCS 客戶端，未指定時使用預設憑證
func NewGCSUploader(ctx context.Context, cfg config.GCSConfig, extra ...option.ClientOption) (*GCSUploader, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	opts = append(opts, extra...)

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSUploader{client: client, bucket: cfg.Bucket}, nil
}

// Store 上傳並公開物件
func (u *GCSUploader) Store(ctx context.Context, body io.Reader, contentType string) (string, error) {
	key := newObjectKey(contentType)
	obj := u.client.Bucket(u.bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", common.Wrap(common.ErrStorage, "failed to upload image", err)
	}
	if err := w.Close(); err != nil {
		return "", common.Wrap(common.ErrStorage, "failed to upload image", err)
	}

	// 物件已寫入，公開失敗時呼叫端拿不到 URL，必須在這裡刪除
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		if derr := obj.Delete(context.WithoutCancel(ctx)); derr != nil {
			common.LogWarn("刪除未公開的圖片失敗",
				zap.String("bucket", u.bucket),
				zap.String("object", key),
				zap.Error(derr),
			)
		}
		return "", common.Wrap(common.ErrStorage, "failed to make image public", err)
	}

	publicURL := gcsPublicURL(u.bucket, key)
	common.LogDebug("Image uploaded to GCS",
		zap.String("bucket", u.bucket),
		zap.String("object", key),
	)
	return publicURL, nil
}

// Remove 刪除物件
func (u *GCSUploader) Remove(ctx context.Context, publicURL string) error {
	key, err := objectKeyFromURL(publicURL)
	if err != nil {
		return err
	}
	if err := u.client.Bucket(u.bucket).Object(key).Delete(ctx); err != nil {
		return common.Wrap(common.ErrStorage, "failed to delete image", err)
	}
	return nil
}

// Close 關閉客戶端
func (u *GCSUploader) Close() error {
	return u.client.Close()
}

func gcsPublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", gcsPublicHost, bucket, key)
}
