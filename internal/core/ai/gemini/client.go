package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cookmate/internal/infrastructure/config"
	"cookmate/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrEmptyResponse 回應中沒有任何候選文字
var ErrEmptyResponse = errors.New("no candidates in gemini response")

// Client 生成式語言 API 客戶端
type Client struct {
	client    *resty.Client
	apiKey    string
	model     string
	maxTokens int
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewClient 創建客戶端
func NewClient(cfg config.GeminiConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	common.LogInfo("Gemini 客戶端初始化",
		zap.String("model", cfg.Model),
		zap.String("key", common.MaskAPIKey(cfg.APIKey)),
	)

	return &Client{
		client:    client,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Model 回傳使用中的模型名稱
func (c *Client) Model() string {
	return c.model
}

// Generate 送出單輪提示並回傳第一個候選文字
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if c.maxTokens > 0 {
		req.GenerationConfig = &generationConfig{MaxOutputTokens: c.maxTokens}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		err = fmt.Errorf("failed to send request to Gemini: %w", err)
		common.LogAICall(c.model, time.Since(start), err)
		return "", err
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode(), resp.String())
		common.LogAICall(c.model, time.Since(start), err)
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		err = fmt.Errorf("failed to parse Gemini response: %w", err)
		common.LogAICall(c.model, time.Since(start), err)
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		common.LogAICall(c.model, time.Since(start), ErrEmptyResponse)
		return "", ErrEmptyResponse
	}

	common.LogAICall(c.model, time.Since(start), nil)
	return result.Candidates[0].Content.Parts[0].Text, nil
}
