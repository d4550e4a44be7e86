package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/pkg/common"

	"github.com/google/uuid"
)

// Uploader 圖片暫存後端：上傳後回傳公開 URL，用完以同一個 URL 刪除
type Uploader interface {
	Store(ctx context.Context, body io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, publicURL string) error
}

// NewUploader 依設定選擇儲存後端
func NewUploader(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendGCS:
		return NewGCSUploader(ctx, cfg.Storage.GCS)
	case config.StorageBackendS3:
		return NewS3Uploader(ctx, cfg.Storage.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newObjectKey 以 UUID 產生物件名稱
func newObjectKey(contentType string) string {
	return uuid.New().String() + extensionFor(contentType)
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// objectKeyFromURL 取公開 URL 的最後一段作為物件名稱
func objectKeyFromURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", common.Wrap(common.ErrStorage, "invalid object url", err)
	}
	key := path.Base(u.Path)
	if key == "" || key == "." || key == "/" {
		return "", common.Wrap(common.ErrStorage, "invalid object url", fmt.Errorf("no object name in %q", publicURL))
	}
	return key, nil
}
