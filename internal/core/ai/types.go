package ai

import "context"

// ClassifyRequest 一次多模態分類請求
type ClassifyRequest struct {
	ImageURL     string // 公開的圖片 URL
	Prompt       string // user 訊息文字
	SystemPrompt string // system 訊息
	MaxTokens    int    // 回應 token 上限
}

// Classifier 將圖片與提示詞送給多模態模型，回傳原始文字回應
type Classifier interface {
	Classify(ctx context.Context, req *ClassifyRequest) (string, error)
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
