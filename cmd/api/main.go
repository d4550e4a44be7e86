package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-detection-api/internal/api"
	"food-detection-api/internal/core/ai/openai"
	"food-detection-api/internal/core/catalog"
	"food-detection-api/internal/core/image"
	"food-detection-api/internal/core/recipe"
	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/infrastructure/database"
	"food-detection-api/internal/infrastructure/storage"
	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（.env 由 LoadConfig 選擇性載入）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openai_api_key", config.MaskAPIKey(cfg.AI.APIKey)),
		zap.String("model", cfg.AI.Model),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// 資料庫
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		common.LogFatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	var repo catalog.Repository = catalog.NewPostgresRepository(pool)

	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled {
		store, err := catalog.NewRedisStore(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			common.LogFatal("Failed to connect to redis", zap.Error(err))
		}
		defer store.Close()
		repo = catalog.NewCachedRepository(repo, store, cfg.Cache.TTL)
	}

	// 圖片暫存
	uploader, err := storage.NewUploader(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize storage", zap.Error(err))
	}
	if closer, ok := uploader.(io.Closer); ok {
		defer closer.Close()
	}

	matcher := catalog.NewMatcher(repo)
	base := recipe.NewService(uploader, openai.NewClient(cfg.AI), matcher, image.NewService(cfg.Image.MaxSizeBytes))

	router := api.SetupRouter(cfg, api.Services{
		Food:       recipe.NewFoodService(base),
		Ingredient: recipe.NewIngredientService(base),
		Catalog:    matcher,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo(common.MsgServerStarting,
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		common.LogError("Failed to start server", zap.Error(err))
		return
	case <-quit:
	}

	common.LogInfo(common.MsgServerStopping)

	// 等待進行中的請求完成清理
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo(common.MsgServerExited)
}
