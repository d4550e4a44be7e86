package recipe

import (
	"net/http"

	"food-detection-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleDetectIngredients 處理 POST /detect-ingredients/
func HandleDetectIngredients(svc IngredientDetector) gin.HandlerFunc {
	return func(c *gin.Context) {
		common.LogInfo("開始處理食材辨識請求",
			zap.String("request_id", requestid.Get(c)),
			zap.String("client_ip", c.ClientIP()),
		)

		img, err := readUpload(c)
		if err != nil {
			writeError(c, "請求格式無效", err)
			return
		}

		result, err := svc.DetectIngredients(requestContext(c), img)
		if err != nil {
			writeError(c, "食材辨識失敗", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
