package recipe

import (
	"context"
	"errors"
	"io"
	"net/http"

	recipeService "food-detection-api/internal/core/recipe"
	"food-detection-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// formField 上傳圖片的 multipart 欄位名稱
const formField = "file"

// FoodDetector 食物辨識
type FoodDetector interface {
	DetectFoods(ctx context.Context, img *recipeService.Image) (*recipeService.FoodDetectionResult, error)
}

// IngredientDetector 食材辨識
type IngredientDetector interface {
	DetectIngredients(ctx context.Context, img *recipeService.Image) (*recipeService.IngredientDetectionResult, error)
}

// requestContext 將 requestid 中間件產生的 ID 帶進服務層
func requestContext(c *gin.Context) context.Context {
	return common.WithRequestID(c.Request.Context(), requestid.Get(c))
}

// readUpload 讀取 multipart 欄位 file
func readUpload(c *gin.Context) (*recipeService.Image, error) {
	fh, err := c.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, common.NewError(common.ErrCodeInvalidRequest, "request body too large", http.StatusRequestEntityTooLarge, err)
		}
		return nil, common.Wrap(common.ErrInvalidRequest, "missing file field", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidRequest, "unable to read uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidRequest, "unable to read uploaded file", err)
	}

	return &recipeService.Image{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

// writeError 記錄並寫入錯誤回應
func writeError(c *gin.Context, msg string, err error) {
	common.LogError(msg,
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
	)
	_ = c.Error(err)
	common.WriteErrorResponse(c, err)
}
