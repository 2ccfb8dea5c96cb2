package recipe

import (
	"context"

	"cookmate/internal/core/preferences"
	"cookmate/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source 外部食譜來源
type Source interface {
	// Random 取得一道隨機食譜
	Random(ctx context.Context) (*Recipe, error)
	Search(ctx context.Context, query string) ([]Recipe, error)
	// Lookup 依 ID 取得完整食譜，找不到時回傳 nil, nil
	Lookup(ctx context.Context, id string) (*Recipe, error)
	// FilterByCategory 與 FilterByIngredient 只回傳食譜 ID
	FilterByCategory(ctx context.Context, category string) ([]string, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// ServiceConfig 食譜服務設定
type ServiceConfig struct {
	MaxConcurrency int
	RandomCount    int
}

// Service 食譜服務，上游失敗時回傳空結果，不把錯誤往外傳
type Service struct {
	source Source
	cfg    ServiceConfig
}

// NewService 創建新的食譜服務
func NewService(source Source, cfg ServiceConfig) *Service {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if cfg.RandomCount <= 0 {
		cfg.RandomCount = 10
	}
	return &Service{source: source, cfg: cfg}
}

// Search 依名稱搜尋
func (s *Service) Search(ctx context.Context, query string) []Recipe {
	recipes, err := s.source.Search(ctx, query)
	if err != nil {
		common.LogError("搜尋食譜失敗", zap.String("query", query), zap.Error(err))
		return []Recipe{}
	}
	return nonNil(recipes)
}

// RecipeByID 取得含步驟的食譜，失敗或不存在時回傳 nil
func (s *Service) RecipeByID(ctx context.Context, id string) *RecipeDetail {
	r, err := s.source.Lookup(ctx, id)
	if err != nil {
		common.LogError("取得食譜失敗", zap.String("recipe_id", id), zap.Error(err))
		return nil
	}
	if r == nil {
		return nil
	}
	return NewDetail(*r)
}

// RecipesByCategory 依分類取得完整食譜
func (s *Service) RecipesByCategory(ctx context.Context, category string) []Recipe {
	ids, err := s.source.FilterByCategory(ctx, category)
	if err != nil {
		common.LogError("依分類取得食譜失敗", zap.String("category", category), zap.Error(err))
		return []Recipe{}
	}
	return s.fetchAll(ctx, ids)
}

// RecipesByIngredient 依主要食材取得完整食譜
func (s *Service) RecipesByIngredient(ctx context.Context, ingredient string) []Recipe {
	ids, err := s.source.FilterByIngredient(ctx, ingredient)
	if err != nil {
		common.LogError("依食材取得食譜失敗", zap.String("ingredient", ingredient), zap.Error(err))
		return []Recipe{}
	}
	return s.fetchAll(ctx, ids)
}

// Categories 取得所有分類名稱
func (s *Service) Categories(ctx context.Context) []string {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		common.LogError("取得分類失敗", zap.Error(err))
		return []string{}
	}
	if categories == nil {
		return []string{}
	}
	return categories
}

// RandomRecipes 取得 count 道隨機食譜，失敗的請求直接略過
func (s *Service) RandomRecipes(ctx context.Context, count int) []Recipe {
	if count <= 0 {
		count = s.cfg.RandomCount
	}

	results := make([]*Recipe, count)
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i := range count {
		g.Go(func() error {
			r, err := s.source.Random(ctx)
			if err != nil {
				common.LogWarn("取得隨機食譜失敗", zap.Int("index", i), zap.Error(err))
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return collect(results)
}

// RecommendForPreferences 依飲食限制挑選來源，排除過敏原後依偏好排序
func (s *Service) RecommendForPreferences(ctx context.Context, prefs preferences.UserPreferences) []Recipe {
	var candidates []Recipe

	switch {
	case prefs.DietaryRestrictions.Vegan:
		candidates = s.Search(ctx, "vegan")
	case prefs.DietaryRestrictions.Vegetarian:
		candidates = s.RecipesByCategory(ctx, "Vegetarian")
	}

	if len(candidates) == 0 {
		candidates = s.RandomRecipes(ctx, s.cfg.RandomCount)
	}

	ranked := Rank(candidates, prefs)
	common.LogInfo("推薦食譜完成",
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)
	return ranked
}

// fetchAll 以有限併發取得每個 ID 的完整食譜，維持原本順序並略過失敗項目
func (s *Service) fetchAll(ctx context.Context, ids []string) []Recipe {
	results := make([]*Recipe, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r, err := s.source.Lookup(ctx, id)
			if err != nil {
				common.LogWarn("取得食譜明細失敗，略過", zap.String("recipe_id", id), zap.Error(err))
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	recipes := collect(results)
	if skipped := len(ids) - len(recipes); skipped > 0 {
		common.LogInfo("部分食譜明細未取得",
			zap.Int("requested", len(ids)),
			zap.Int("skipped", skipped),
		)
	}
	return recipes
}

func collect(results []*Recipe) []Recipe {
	out := make([]Recipe, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func nonNil(recipes []Recipe) []Recipe {
	if recipes == nil {
		return []Recipe{}
	}
	return recipes
}
