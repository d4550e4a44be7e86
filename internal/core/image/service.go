package image

import (
	"bytes"
	"fmt"
	"image"
	"net/http"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	"food-detection-api/internal/pkg/common"

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Info 上傳圖片的基本資訊
type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Service 圖片檢查服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片檢查服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{maxSizeBytes: maxSizeBytes}
}

// Validate 檢查大小與格式，只讀取圖片標頭不完整解碼
func (s *Service) Validate(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, common.Wrap(common.ErrInvalidImage, "empty image", nil)
	}

	// 檢查文件大小
	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return nil, common.Wrap(common.ErrInvalidImage,
			fmt.Sprintf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes), nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImage, "failed to decode image", err)
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return nil, common.Wrap(common.ErrInvalidImage, "unsupported image format: "+format, nil)
	}

	return &Info{
		Format:      format,
		ContentType: contentTypeFor(format, data),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}

// contentTypeFor 依解碼結果決定 Content-Type，不信任用戶端宣告值
func contentTypeFor(format string, data []byte) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}
