package recipe

import (
	"bytes"
	"context"
	"errors"
	"time"

	"food-detection-api/internal/core/ai"
	"food-detection-api/internal/core/catalog"
	"food-detection-api/internal/core/image"
	"food-detection-api/internal/infrastructure/storage"
	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
)

// defaultCleanupTimeout 刪除暫存圖片的時間上限
const defaultCleanupTimeout = 10 * time.Second

// Service 辨識流程基礎結構：上傳 → AI 分類 → 交給各流程解析比對 → 刪除暫存圖片
type Service struct {
	uploader   storage.Uploader
	classifier ai.Classifier
	matcher    *catalog.Matcher
	images     *image.Service

	cleanupTimeout time.Duration
}

// NewService 創建辨識流程服務，images 為 nil 時不檢查圖片
func NewService(uploader storage.Uploader, classifier ai.Classifier, matcher *catalog.Matcher, images *image.Service) *Service {
	return &Service{
		uploader:   uploader,
		classifier: classifier,
		matcher:    matcher,
		images:     images,

		cleanupTimeout: defaultCleanupTimeout,
	}
}

// prompt 一個流程使用的提示詞組合
type prompt struct {
	flow      string
	system    string
	user      string
	maxTokens int
}

// run 依序執行上傳與分類，handle 負責解析、比對與組裝並以 advance 回報階段。
// 無論成功或失敗都會刪除已上傳的圖片，刪除失敗只記錄警告。
func (s *Service) run(ctx context.Context, img *Image, p prompt, handle func(raw string, advance func(Stage)) error) (err error) {
	requestID := common.RequestIDFromContext(ctx)
	start := time.Now()
	stage := StageReceived
	logStage := func(next Stage) {
		stage = next
		common.LogDebug("辨識流程階段",
			zap.String("flow", p.flow),
			zap.String("stage", string(stage)),
			zap.String("request_id", requestID),
		)
	}
	logStage(StageReceived)
	common.LogDebug("收到圖片",
		zap.String("flow", p.flow),
		zap.String("filename", img.Filename),
		zap.String("content_type", img.ContentType),
		zap.Int("size", len(img.Data)),
		zap.String("request_id", requestID),
	)

	contentType := img.ContentType
	if s.images != nil {
		info, verr := s.images.Validate(img.Data)
		if verr != nil {
			return verr
		}
		contentType = info.ContentType
	}

	imageURL, err := s.uploader.Store(ctx, bytes.NewReader(img.Data), contentType)
	if err != nil {
		common.LogError("圖片上傳失敗",
			zap.String("flow", p.flow),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return asStageError(common.ErrStorage, err)
	}
	logStage(StageUploaded)

	defer func() {
		s.cleanup(ctx, p.flow, imageURL)
		if err != nil {
			common.LogWarn("辨識流程失敗",
				zap.String("flow", p.flow),
				zap.String("stage", string(stage)),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}()

	raw, err := s.classifier.Classify(ctx, &ai.ClassifyRequest{
		ImageURL:     imageURL,
		Prompt:       p.user,
		SystemPrompt: p.system,
		MaxTokens:    p.maxTokens,
	})
	if err != nil {
		return asStageError(common.ErrAIService, err)
	}
	logStage(StageClassified)

	if err = handle(raw, logStage); err != nil {
		return err
	}
	logStage(StageResponded)

	common.LogInfo("辨識完成",
		zap.String("flow", p.flow),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)
	return nil
}

// cleanup 刪除暫存圖片，不受請求取消影響但有時間上限
func (s *Service) cleanup(ctx context.Context, flow, imageURL string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cleanupTimeout)
	defer cancel()

	if err := s.uploader.Remove(cleanupCtx, imageURL); err != nil {
		common.LogWarn("刪除暫存圖片失敗",
			zap.String("flow", flow),
			zap.String("stage", string(StageCleanup)),
			zap.String("url", imageURL),
			zap.String("request_id", common.RequestIDFromContext(ctx)),
			zap.Error(err),
		)
	}
}

// Ping 檢查目錄資料庫
func (s *Service) Ping(ctx context.Context) error {
	return s.matcher.Ping(ctx)
}

// asStageError 保留既有的 CustomError，否則包成該階段的錯誤
func asStageError(base *common.CustomError, err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return common.Wrap(base, "", err)
}
