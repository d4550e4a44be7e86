package api

import (
	"time"

	"food-detection-api/internal/api/handlers/health"
	recipeHandler "food-detection-api/internal/api/handlers/recipe"
	"food-detection-api/internal/api/middleware"
	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由依賴的服務
type Services struct {
	Food       recipeHandler.FoodDetector
	Ingredient recipeHandler.IngredientDetector
	Catalog    health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}

	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/", health.Root)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(svc.Catalog))
	router.GET("/live", health.LivenessCheck)

	// 辨識路由
	router.POST("/detect-foods/", recipeHandler.HandleDetectFoods(svc.Food))
	router.POST("/detect-ingredients/", recipeHandler.HandleDetectIngredients(svc.Ingredient))

	common.LogInfo("Router setup completed",
		zap.String("version", cfg.App.Version),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
