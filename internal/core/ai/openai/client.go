package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-detection-api/internal/core/ai"
	"food-detection-api/internal/infrastructure/config"
	"food-detection-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// chatRequest chat completions 請求
type chatRequest struct {
	Model     string           `json:"model"`
	Messages  []common.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

// chatResponse chat completions 回應
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage ai.Usage `json:"usage"`
}

// apiError 服務端錯誤格式
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// Client OpenAI 相容的 chat completions 客戶端，失敗不重試
type Client struct {
	client *resty.Client
	model  string
}

// NewClient 創建客戶端
func NewClient(cfg config.AIConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
	}
}

// Classify 送出 system + user(text, image_url) 訊息並回傳第一個 choice 的文字
func (c *Client) Classify(ctx context.Context, req *ai.ClassifyRequest) (string, error) {
	requestID := common.RequestIDFromContext(ctx)
	body := chatRequest{
		Model: c.model,
		Messages: []common.Message{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: []common.Content{
				{Type: "text", Text: req.Prompt},
				{Type: "image_url", ImageURL: &common.ImageURL{URL: req.ImageURL}},
			}},
		},
		MaxTokens: req.MaxTokens,
	}

	common.LogDebug("Sending request to AI service",
		zap.String("model", c.model),
		zap.Int("max_tokens", req.MaxTokens),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	content, usage, err := c.send(ctx, &body)
	common.LogAICall(c.model, time.Since(start), err, requestID)
	if err != nil {
		return "", err
	}

	common.LogDebug("AI token usage",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.String("request_id", requestID),
	)
	return content, nil
}

func (c *Client) send(ctx context.Context, body *chatRequest) (string, ai.Usage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", ai.Usage{}, common.Wrap(common.ErrAIService, "failed to reach AI service", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", ai.Usage{}, common.Wrap(common.ErrAIService, "AI service returned an error",
			fmt.Errorf("status %d: %s", resp.StatusCode(), errorMessage(resp.Body())))
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", ai.Usage{}, common.Wrap(common.ErrAIService, "failed to parse AI service response", err)
	}
	if len(result.Choices) == 0 {
		return "", ai.Usage{}, common.Wrap(common.ErrAIService, "AI service returned no choices", nil)
	}

	return result.Choices[0].Message.Content, result.Usage, nil
}

// errorMessage 取出錯誤訊息，非 JSON 時直接回傳原文
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(body)
}
