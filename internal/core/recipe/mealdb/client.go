// Package mealdb 是 TheMealDB 公開 API 的食譜來源實作。
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cookmate/internal/core/ai/cache"
	"cookmate/internal/core/recipe"
	"cookmate/internal/infrastructure/config"
	"cookmate/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	cacheNamespace = "mealdb"
	maxIngredients = 20
)

// Compile-time interface check.
var _ recipe.Source = (*Client)(nil)

// Client TheMealDB 客戶端
type Client struct {
	client *resty.Client
	cache  *cache.CacheManager
}

// NewClient 創建 TheMealDB 客戶端，cacheManager 可為 nil
func NewClient(cfg config.MealDBConfig, cacheManager *cache.CacheManager) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		cache:  cacheManager,
	}
}

// Random 取得一道隨機食譜，不使用快取
func (c *Client) Random(ctx context.Context) (*recipe.Recipe, error) {
	var resp mealsResponse
	if err := c.get(ctx, "/random.php", nil, false, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, fmt.Errorf("empty random response")
	}
	r := resp.Meals[0].toRecipe()
	return &r, nil
}

// Search 依名稱搜尋
func (c *Client) Search(ctx context.Context, query string) ([]recipe.Recipe, error) {
	var resp mealsResponse
	if err := c.get(ctx, "/search.php", map[string]string{"s": query}, true, &resp); err != nil {
		return nil, err
	}

	recipes := make([]recipe.Recipe, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		recipes = append(recipes, m.toRecipe())
	}
	return recipes, nil
}

// Lookup 依 ID 取得完整食譜
func (c *Client) Lookup(ctx context.Context, id string) (*recipe.Recipe, error) {
	var resp mealsResponse
	if err := c.get(ctx, "/lookup.php", map[string]string{"i": id}, true, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, nil
	}
	r := resp.Meals[0].toRecipe()
	return &r, nil
}

// FilterByCategory 依分類篩選，只回傳 ID
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]string, error) {
	return c.filter(ctx, "c", category)
}

// FilterByIngredient 依主要食材篩選，只回傳 ID
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	return c.filter(ctx, "i", ingredient)
}

// Categories 取得分類名稱
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "/categories.php", nil, true, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		names = append(names, cat.Name)
	}
	return names, nil
}

func (c *Client) filter(ctx context.Context, param, value string) ([]string, error) {
	var resp filterResponse
	if err := c.get(ctx, "/filter.php", map[string]string{param: value}, true, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// get 送出 GET 請求並解析 JSON，cacheable 時先查快取
func (c *Client) get(ctx context.Context, path string, params map[string]string, cacheable bool, out interface{}) error {
	key := cacheKey(path, params)

	if cacheable {
		if body, err := c.cache.Get(ctx, cacheNamespace, key); err == nil {
			return json.Unmarshal([]byte(body), out)
		}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to send request to TheMealDB: %w", err)
	}

	common.LogDebug("TheMealDB 請求完成",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("耗時", time.Since(start)),
	)

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("TheMealDB returned status %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse TheMealDB response: %w", err)
	}

	if cacheable {
		if err := c.cache.Set(ctx, cacheNamespace, key, string(resp.Body())); err != nil {
			common.LogWarn("TheMealDB 回應未寫入快取", zap.Error(err))
		}
	}
	return nil
}

func cacheKey(path string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(path)
	// 每個端點只帶一個參數，不需排序
	for k, v := range params {
		sb.WriteString("?" + k + "=" + strings.ToLower(strings.TrimSpace(v)))
	}
	return sb.String()
}
