package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cookmate/internal/core/ai/cache"
	"cookmate/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	cacheNamespace = "assistant"

	personaContext = "You are CookMate, a friendly and encouraging cooking assistant. " +
		"Provide cooking tips, recipe suggestions, ingredient substitutions, " +
		"and answer any cooking-related questions. Use a conversational, supportive tone."

	welcomePrompt = "Generate a short, enthusiastic welcome message for someone who is about to cook %s. " +
		"Be conversational, friendly, and encouraging. Mention the recipe name and express excitement about helping them cook it. " +
		"Keep it under 40 words."

	// ChatFallback 獨立聊天失敗時的固定回覆
	ChatFallback = "Sorry, I had trouble processing your request. Please try again."
)

// ErrAssistantUnavailable 未設定生成式 API
var ErrAssistantUnavailable = errors.New("assistant is not configured")

// Generator 生成式語言模型
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service 烹飪助理服務
type Service struct {
	generator    Generator
	cacheManager *cache.CacheManager
}

// NewService 創建助理服務，generator 為 nil 代表未設定
func NewService(generator Generator, cacheManager *cache.CacheManager) *Service {
	return &Service{
		generator:    generator,
		cacheManager: cacheManager,
	}
}

// IsConfigured 是否可呼叫生成式 API
func (s *Service) IsConfigured() bool {
	return s != nil && s.generator != nil
}

// Respond 在 prompt 前加上助理角色說明後送出，失敗時回傳錯誤由呼叫端決定替代訊息
func (s *Service) Respond(ctx context.Context, prompt, recipeName string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrAssistantUnavailable
	}

	return s.generate(ctx, cookingContext(recipeName)+"\n\n"+prompt)
}

// WelcomeMessage 產生開始烹飪時的歡迎詞，不會失敗
func (s *Service) WelcomeMessage(ctx context.Context, recipeName string) string {
	fallback := fmt.Sprintf("Welcome! I'll help you cook %s. Let's get started!", recipeName)
	if !s.IsConfigured() {
		return fallback
	}

	text, err := s.generate(ctx, fmt.Sprintf(welcomePrompt, recipeName))
	if err != nil {
		common.LogWarn("歡迎詞產生失敗，使用預設訊息", zap.String("recipe", recipeName), zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("You made an awesome choice! Now let me walk you through the steps of cooking %s.", recipeName)
	}
	return text
}

// Chat 不綁定食譜的一般聊天，失敗時回傳 ChatFallback
func (s *Service) Chat(ctx context.Context, message string) string {
	text, err := s.Respond(ctx, "User question: "+message, "")
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			common.LogWarn("聊天回覆失敗", zap.Error(err))
		}
		return ChatFallback
	}
	return text
}

// generate 先查快取再呼叫模型，空白回覆不寫入快取
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	key := normalizePrompt(prompt)

	if val, err := s.cacheManager.Get(ctx, cacheNamespace, key); err == nil && val != "" {
		return val, nil
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}

	if strings.TrimSpace(text) != "" {
		if err := s.cacheManager.Set(ctx, cacheNamespace, key, text); err != nil {
			common.LogDebug("助理回覆未寫入快取", zap.Error(err))
		}
	}
	return text, nil
}

func cookingContext(recipeName string) string {
	if recipeName == "" {
		return personaContext
	}
	return personaContext + " You are currently helping the user cook " + recipeName + "."
}

// normalizePrompt 合併連續空白，確保快取 key 一致
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
