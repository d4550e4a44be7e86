package common

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type requestIDKey struct{}

// WithRequestID 將請求 ID 放入 context，供服務層記錄日誌
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext 取出請求 ID，沒有時回傳空字串
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WriteErrorResponse 寫入錯誤響應，body 固定為 {"error": <message>}
func WriteErrorResponse(c *gin.Context, err error) {
	ce := AsCustomError(err)
	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ce.Message})
}
