package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error string `json:"error"`
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息（回傳給用戶端）
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrStorage) 對衍生錯誤也成立
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以既有錯誤的代碼與狀態碼建立帶有階段訊息的新錯誤
func Wrap(base *CustomError, message string, err error) *CustomError {
	if message == "" {
		message = base.Message
	}
	return NewError(base.Code, message, base.Status, err)
}

// AsCustomError 取出錯誤鏈中的 CustomError，找不到時回傳 ErrInternalError
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return Wrap(ErrInternalError, "", err)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"  // 400
	ErrCodeInvalidImage    = "INVALID_IMAGE"    // 400
	ErrCodeMalformedOutput = "MALFORMED_OUTPUT" // 400
	ErrCodeNoMatch         = "NO_MATCH"         // 400
	ErrCodeInternalError   = "INTERNAL_ERROR"   // 500
	ErrCodeDatabase        = "DATABASE_ERROR"   // 500
	ErrCodeStorage         = "STORAGE_ERROR"    // 502
	ErrCodeAIService       = "AI_SERVICE_ERROR" // 502
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrInvalidImage   = NewError(ErrCodeInvalidImage, "invalid image", http.StatusBadRequest, nil)

	// AI 回應無法轉成預期格式
	ErrMalformedOutput = NewError(ErrCodeMalformedOutput, "invalid data format", http.StatusBadRequest, nil)
	// 食材流程找不到任何對應資料
	ErrNoMatch = NewError(ErrCodeNoMatch, "no ingredients found matching the identified names", http.StatusBadRequest, nil)

	// 服務器錯誤
	ErrInternalError = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrDatabase      = NewError(ErrCodeDatabase, "database error", http.StatusInternalServerError, nil)
	ErrStorage       = NewError(ErrCodeStorage, "storage error", http.StatusBadGateway, nil)
	ErrAIService     = NewError(ErrCodeAIService, "AI service error", http.StatusBadGateway, nil)
)
